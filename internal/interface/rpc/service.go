// Package rpc 收银与畅销榜的gRPC接口
//
// 消息体使用google.protobuf.Struct,不需要生成代码:
//
//	Sales      {"lines":[{"isbn":"A","quantity":2}]} → {"receipt_no":..., "results":[...], "total":..., "message":...}
//	TopSellers {}                                     → {"items":[{"isbn":...,"title":...,"author":...,"price":...}]}
//
// 业务错误转换为gRPC状态码,details中附带ErrorInfo,Reason为错误类别(如ORDER_LIMIT_EXCEEDED)
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName 完整服务名
const ServiceName = "bookstore.invoicing.v1.InvoicingService"

// 方法全名
const (
	MethodSales      = "/" + ServiceName + "/Sales"
	MethodTopSellers = "/" + ServiceName + "/TopSellers"
)

// InvoicingServer 服务端接口
type InvoicingServer interface {
	Sales(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	TopSellers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc 手写的服务描述(与protoc-gen-go-grpc生成的结构相同)
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InvoicingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sales", Handler: unaryHandler(MethodSales, InvoicingServer.Sales)},
		{MethodName: "TopSellers", Handler: unaryHandler(MethodTopSellers, InvoicingServer.TopSellers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookstore/invoicing/v1/invoicing.proto",
}

// RegisterInvoicingServer 注册服务
func RegisterInvoicingServer(s grpc.ServiceRegistrar, srv InvoicingServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type method func(InvoicingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call method) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InvoicingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InvoicingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client 客户端
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient 创建客户端
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Sales 收银
func (c *Client) Sales(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodSales, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TopSellers 畅销榜
func (c *Client) TopSellers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodTopSellers, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

package rpc

import (
	"context"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// errorDomain ErrorInfo.Domain
const errorDomain = "invoicing.bookstore"

// Server InvoicingService实现
// 只做协议转换(Struct ↔ 应用层DTO)和错误转换,业务逻辑在应用层
type Server struct {
	sellBooks *appsale.SellBooksUseCase
	search    *appbook.SearchUseCase
}

var _ InvoicingServer = (*Server)(nil)

// NewServer 创建服务实现
func NewServer(sellBooks *appsale.SellBooksUseCase, search *appbook.SearchUseCase) *Server {
	return &Server{sellBooks: sellBooks, search: search}
}

// Sales 收银
func (s *Server) Sales(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// 1. 解析明细
	req, err := parseSellRequest(in)
	if err != nil {
		return nil, toStatus(err)
	}

	// 2. 调用收银用例
	resp, err := s.sellBooks.Execute(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}

	// 3. 转换响应
	results := make([]interface{}, len(resp.Results))
	for i, l := range resp.Results {
		results[i] = map[string]interface{}{
			"isbn":       l.ISBN,
			"title":      l.Title,
			"author":     l.Author,
			"price":      l.Price,
			"quantity":   l.Quantity,
			"line_total": l.LineTotal,
		}
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"receipt_no": resp.ReceiptNo,
		"results":    results,
		"total":      resp.Total,
		"total_yuan": resp.TotalYuan,
		"units":      resp.Units,
		"message":    resp.Message,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// TopSellers 畅销榜
func (s *Server) TopSellers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	views, err := s.search.TopSellers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]interface{}, len(views))
	for i, v := range views {
		items[i] = map[string]interface{}{
			"isbn":   v.ISBN,
			"title":  v.Title,
			"author": v.Author,
			"price":  *v.Price,
		}
	}
	out, err := structpb.NewStruct(map[string]interface{}{"items": items})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// parseSellRequest {"lines":[{"isbn":"A","quantity":2}]}
// quantity必须是整数
func parseSellRequest(in *structpb.Struct) (appsale.SellRequest, error) {
	lines := in.GetFields()["lines"].GetListValue().GetValues()
	req := appsale.SellRequest{Lines: make([]appsale.LineInput, 0, len(lines))}
	for i, v := range lines {
		fields := v.GetStructValue().GetFields()
		q := fields["quantity"].GetNumberValue()
		if q != math.Trunc(q) || q > math.MaxInt32 || q < math.MinInt32 {
			return req, apperrors.Newf(apperrors.ErrCodeInvalidQuantity, "第%d行数量不合法", i+1)
		}
		req.Lines = append(req.Lines, appsale.LineInput{
			ISBN:     fields["isbn"].GetStringValue(),
			Quantity: int(q),
		})
	}
	return req, nil
}

// toStatus AppError → gRPC status,details附带ErrorInfo
func toStatus(err error) error {
	appErr := apperrors.GetAppError(err)
	st := status.New(grpcCode(appErr), appErr.Message)

	withDetails, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: appErr.Reason(),
		Domain: errorDomain,
		Metadata: map[string]string{
			"code": strconv.Itoa(appErr.Code),
		},
	})
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}

func grpcCode(appErr *apperrors.AppError) codes.Code {
	switch appErr.Reason() {
	case "NOT_FOUND":
		return codes.NotFound
	case "EMPTY_INPUT", "DUPLICATE_OR_INVALID_FIELD", "INVALID_INPUT", "MISSING_QUERY_PARAM",
		"INVALID_PRICE", "INVALID_ISBN", "INVALID_QUANTITY":
		return codes.InvalidArgument
	case "INSUFFICIENT_STOCK", "ORDER_LIMIT_EXCEEDED":
		return codes.FailedPrecondition
	case "UNAUTHORIZED":
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// ReasonOf 从gRPC错误中取出ErrorInfo.Reason(客户端使用)
func ReasonOf(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}

// NewGRPCServer 创建gRPC服务器
// 1. 日志拦截器、认证拦截器(Sales需要登录)
// 2. 注册InvoicingService和健康检查
// 3. 开启reflection,便于grpcurl调试
func NewGRPCServer(srv InvoicingServer, auth *Authenticator, logger *zap.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(logger),
		auth.UnaryInterceptor(),
	))

	RegisterInvoicingServer(s, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	reflection.Register(s)
	return s, healthServer
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

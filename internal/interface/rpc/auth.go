package rpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/jwt"
)

// TokenBlacklist Token黑名单(Redis实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

type staffIDKey struct{}

// Authenticator 店员认证,与HTTP的AuthMiddleware使用同一套JWT和黑名单
type Authenticator struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthenticator 创建认证拦截器
func NewAuthenticator(jwtManager *jwt.Manager, blacklist TokenBlacklist) *Authenticator {
	return &Authenticator{jwtManager: jwtManager, blacklist: blacklist}
}

// protectedMethods 需要登录的方法,TopSellers公开
var protectedMethods = map[string]bool{
	MethodSales: true,
}

// UnaryInterceptor 校验metadata中的 authorization: Bearer <token>
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !protectedMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		staffID, err := a.authenticate(ctx)
		if err != nil {
			return nil, toStatus(err)
		}
		return handler(context.WithValue(ctx, staffIDKey{}, staffID), req)
	}
}

func (a *Authenticator) authenticate(ctx context.Context) (uint, error) {
	// 1. 提取Token
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return 0, apperrors.ErrUnauthorized
	}
	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")
	}
	token := parts[1]

	// 2. 黑名单(店员已登出)
	blacklisted, err := a.blacklist.IsInBlacklist(ctx, token)
	if err != nil {
		return 0, err
	}
	if blacklisted {
		return 0, apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
	}

	// 3. 验证Token
	claims, err := a.jwtManager.ParseToken(token)
	if err != nil {
		return 0, err
	}
	return claims.StaffID, nil
}

// StaffIDFromContext 已认证请求的店员ID
func StaffIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(staffIDKey{}).(uint)
	return id, ok
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/invoicing/pkg/errors"
	"github.com/xiebiao/invoicing/pkg/jwt"
	"github.com/xiebiao/invoicing/pkg/response"
)

// Context键
const (
	ctxStaffID     = "staff_id"
	ctxEmail       = "email"
	ctxNickname    = "nickname"
	ctxAccessToken = "access_token"
)

// TokenBlacklist Token黑名单(Redis实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将店员信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	shop := r.Group("/api/v1/shop")
//	shop.Use(authMiddleware.RequireAuth())
//	shop.POST("/sales", saleHandler.Sales)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. 黑名单(店员已登出)
		blacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if blacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 3. 验证Token
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// 4. 注入店员信息
		c.Set(ctxStaffID, claims.StaffID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxNickname, claims.Nickname)
		c.Set(ctxAccessToken, tokenString)

		c.Next()
	}
}

// GetStaffID 当前登录店员ID,未登录返回0
func GetStaffID(c *gin.Context) uint {
	return c.GetUint(ctxStaffID)
}

// MustGetStaffID 用于已经通过RequireAuth的Handler
func MustGetStaffID(c *gin.Context) uint {
	staffID := GetStaffID(c)
	if staffID == 0 {
		panic("staff_id not found in context")
	}
	return staffID
}

// GetAccessToken 当前请求的Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

package staff

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/staff"
	"github.com/xiebiao/invoicing/pkg/jwt"
)

// SessionStore 会话与Token黑名单存储(Redis实现)
type SessionStore interface {
	SaveSession(ctx context.Context, staffID uint, sessionData map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, staffID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 店员登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	staffService staff.Service
	jwtManager   *jwt.Manager
	sessions     SessionStore
	logger       *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		staffService: staffService,
		jwtManager:   jwtManager,
		sessions:     sessions,
		logger:       logger,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码
	s, err := uc.staffService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成Token对
	tokenPair, err := uc.jwtManager.GenerateToken(s.ID, s.Email, s.Nickname)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话,有效期与Refresh Token一致
	sessionData := map[string]interface{}{
		"staff_id": s.ID,
		"email":    s.Email,
		"nickname": s.Nickname,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessions.SaveSession(ctx, s.ID, sessionData, uc.jwtManager.RefreshTokenExpire()); err != nil {
		// 会话保存失败不影响登录
		uc.logger.Warn("保存会话失败", zap.Uint("staff_id", s.ID), zap.Error(err))
	}

	uc.logger.Info("店员登录", zap.Uint("staff_id", s.ID), zap.String("ip", req.ClientIP))
	return &LoginResponse{
		Staff:        *toStaffInfo(s),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 店员登出用例
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	sessions   SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessions SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessions: sessions}
}

// Execute 执行登出
// 1. 删除会话
// 2. Access Token加入黑名单,TTL为Token剩余有效期
func (uc *LogoutUseCase) Execute(ctx context.Context, staffID uint, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, staffID); err != nil {
		return err
	}

	ttl := uc.jwtManager.AccessTokenExpire()
	if claims, err := uc.jwtManager.ParseToken(accessToken); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return uc.sessions.AddToBlacklist(ctx, accessToken, ttl)
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Staff        StaffInfo `json:"staff"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // Access Token有效期(秒)
}

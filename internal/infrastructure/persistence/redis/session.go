package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// SessionStore 店员会话存储
// 设计说明：
// 1. 使用Redis存储店员登录会话
// 2. 支持JWT黑名单（店员登出后Access Token立即失效）
// 3. Key设计：session:{staff_id}、blacklist:{token}
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(staffID uint) string {
	return fmt.Sprintf("session:%d", staffID)
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// SaveSession 保存店员会话
// 过期时间与Refresh Token一致,HSet和Expire放在同一个Pipeline里
func (s *SessionStore) SaveSession(ctx context.Context, staffID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(staffID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionData)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取店员会话
func (s *SessionStore) GetSession(ctx context.Context, staffID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(staffID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除店员会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, staffID uint) error {
	if err := s.client.Del(ctx, sessionKey(staffID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// ttl取Token剩余有效期,过期后Redis自动删除
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

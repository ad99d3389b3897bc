package staff

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// DefaultBcryptCost 默认加密强度
// cost每+1耗时翻倍,12约250ms
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRe     = regexp.MustCompile(`[a-zA-Z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

// Service 店员领域服务
// 负责密码加密与校验,不处理HTTP请求
type Service interface {
	// Register 注册店员
	Register(ctx context.Context, email, password, nickname string) (*Staff, error)

	// Login 校验邮箱密码
	Login(ctx context.Context, email, password string) (*Staff, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建店员服务,cost<=0时使用DefaultBcryptCost
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &service{repo: repo, cost: cost}
}

// Register 注册店员
// 业务规则:
// 1. 邮箱格式校验
// 2. 密码8-20位,包含字母和数字
// 3. 昵称2-50个字符
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, email, password, nickname string) (*Staff, error) {
	// 1. 邮箱
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	// 2. 密码强度
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. 昵称
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		return nil, ErrInvalidNickname
	}

	// 4. 密码加密(bcrypt自动加盐)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 5. 持久化
	st := NewStaff(email, string(hashed), nickname)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Login 校验邮箱密码
func (s *service) Login(ctx context.Context, email, password string) (*Staff, error) {
	st, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(st.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return st, nil
}

// validatePasswordStrength 8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}

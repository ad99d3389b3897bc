package staff

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID uint
	byMail map[string]*Staff
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byMail: make(map[string]*Staff)}
}

func (r *memoryRepo) Create(_ context.Context, s *Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[s.Email]; ok {
		return ErrEmailDuplicate
	}
	r.nextID++
	s.ID = r.nextID
	r.byMail[s.Email] = s
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byMail {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrStaffNotFound
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byMail[email]; ok {
		return s, nil
	}
	return nil, ErrStaffNotFound
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepo(), bcrypt.MinCost)

	tests := []struct {
		name     string
		email    string
		password string
		nickname string
		wantErr  error
	}{
		{"邮箱格式错误", "not-an-email", "abc12345", "店员", ErrInvalidEmail},
		{"密码太短", "a@shop.com", "abc123", "店员", ErrWeakPassword},
		{"密码没有数字", "a@shop.com", "abcdefgh", "店员", ErrWeakPassword},
		{"昵称太短", "a@shop.com", "abc12345", "店", ErrInvalidNickname},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.nickname)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("注册成功后重复注册", func(t *testing.T) {
		st, err := svc.Register(ctx, "clerk@shop.com", "abc12345", "收银员")
		require.NoError(t, err)
		assert.NotZero(t, st.ID)
		assert.NotEqual(t, "abc12345", st.Password, "只保存哈希")

		_, err = svc.Register(ctx, "clerk@shop.com", "abc12345", "收银员")
		assert.ErrorIs(t, err, ErrEmailDuplicate)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepo(), bcrypt.MinCost)
	_, err := svc.Register(ctx, "clerk@shop.com", "abc12345", "收银员")
	require.NoError(t, err)

	st, err := svc.Login(ctx, "clerk@shop.com", "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "收银员", st.Nickname)

	_, err = svc.Login(ctx, "clerk@shop.com", "wrong123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@shop.com", "abc12345")
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

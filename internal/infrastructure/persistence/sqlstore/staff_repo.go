package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/invoicing/internal/domain/staff"
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// staffRepository 店员仓储实现
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建店员仓储
func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &staffRepository{db: db}
}

// Create 创建店员
// 邮箱唯一性由UNIQUE索引保证,冲突时转换为ErrEmailDuplicate
func (r *staffRepository) Create(ctx context.Context, s *staff.Staff) error {
	model := &StaffModel{
		Email:    s.Email,
		Password: s.Password,
		Nickname: s.Nickname,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建店员失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找店员
func (r *staffRepository) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	var model StaffModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "查询店员失败")
	}
	return toStaffEntity(&model), nil
}

// FindByEmail 根据邮箱查找店员
func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	var model StaffModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "查询店员失败")
	}
	return toStaffEntity(&model), nil
}

// toStaffEntity GORM模型 → 领域实体
func toStaffEntity(model *StaffModel) *staff.Staff {
	return &staff.Staff{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Nickname:  model.Nickname,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

package staff

import (
	"context"

	"github.com/xiebiao/invoicing/internal/domain/staff"
)

// RegisterUseCase 店员注册用例
// 设计说明：
// 1. Application层负责用例编排，协调领域服务
// 2. 当前注册用例只调用一个领域服务
type RegisterUseCase struct {
	staffService staff.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(staffService staff.Service) *RegisterUseCase {
	return &RegisterUseCase{staffService: staffService}
}

// Execute 执行注册
// 返回应用层DTO，不返回领域实体
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*StaffInfo, error) {
	s, err := uc.staffService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}
	return toStaffInfo(s), nil
}

// =========================================
// 应用层DTO
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// StaffInfo 店员信息(不含密码)
type StaffInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func toStaffInfo(s *staff.Staff) *StaffInfo {
	return &StaffInfo{
		ID:       s.ID,
		Email:    s.Email,
		Nickname: s.Nickname,
	}
}

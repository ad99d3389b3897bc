package staff

import (
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

var (
	// ErrStaffNotFound 店员不存在
	ErrStaffNotFound = apperrors.New(apperrors.ErrCodeStaffNotFound, "店员不存在")

	// ErrEmailDuplicate 邮箱已注册
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已注册")

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeWeakPassword, "密码需为8-20位且包含字母和数字")

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidNickname 昵称长度不合法
	ErrInvalidNickname = apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
)

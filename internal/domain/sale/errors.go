package sale

import (
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// 销售领域错误定义
// 带上下文的错误用apperrors.Newf创建,错误码相同即可用errors.Is匹配
var (
	// ErrEmptySale 销售明细为空
	ErrEmptySale = apperrors.New(apperrors.ErrCodeEmptyInput, "销售明细不能为空")

	// ErrInvalidISBN ISBN不存在
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidISBN, "ISBN不存在")

	// ErrInvalidQuantity 单行数量超出范围
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "购买数量不合法")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrOrderLimitExceeded 整单数量超出限制
	ErrOrderLimitExceeded = apperrors.New(apperrors.ErrCodeOrderLimitExceeded, "单笔订单数量超过限制")
)

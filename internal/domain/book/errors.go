package book

import (
	apperrors "github.com/xiebiao/invoicing/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrEmptyInput 上架列表为空
	ErrEmptyInput = apperrors.New(apperrors.ErrCodeEmptyInput, "上架列表不能为空")

	// ErrInvalidField ISBN重复或字段为空或价格错误
	ErrInvalidField = apperrors.New(apperrors.ErrCodeDuplicateOrInvalid, "ISBN重复、字段为空或价格不合法")

	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidLabels 分类参数不合法
	ErrInvalidLabels = apperrors.New(apperrors.ErrCodeInvalidParams, "分类参数不合法")

	// ErrCategoryNotFound 找不到符合的分类
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "找不到符合的分类")

	// ErrMissingQueryParam 搜索参数全部为空
	ErrMissingQueryParam = apperrors.New(apperrors.ErrCodeMissingQueryParam, "请至少提供一个搜索参数: isbn, title, author")

	// ErrISBNNotMatched 找不到符合的ISBN
	ErrISBNNotMatched = apperrors.New(apperrors.ErrCodeBookNotFound, "找不到符合的ISBN")

	// ErrTitleNotMatched 找不到符合的书名
	ErrTitleNotMatched = apperrors.New(apperrors.ErrCodeBookNotFound, "找不到符合的书名")

	// ErrAuthorNotMatched 找不到符合的作者
	ErrAuthorNotMatched = apperrors.New(apperrors.ErrCodeBookNotFound, "找不到符合的作者")

	// ErrInvalidPrice 价格不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidPrice, "价格不能为负数")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "数量不合法")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)

// RejectedError 批量上架被拒
// 携带被拒的候选图书,HTTP层会把它们放进响应的data字段
type RejectedError struct {
	Rejected []*Book
}

func (e *RejectedError) Error() string {
	return ErrInvalidField.Error()
}

// Unwrap 让errors.Is(err, ErrInvalidField)和GetAppError生效
func (e *RejectedError) Unwrap() error {
	return ErrInvalidField
}

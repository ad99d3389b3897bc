package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

// UpdateCategoryUseCase 分类切换用例
type UpdateCategoryUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewUpdateCategoryUseCase 创建分类切换用例
func NewUpdateCategoryUseCase(bookService book.Service, logger *zap.Logger) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{bookService: bookService, logger: logger}
}

// UpdateCategoryRequest 分类切换请求
// Labels中已有的分类会被移除,没有的会被加入
type UpdateCategoryRequest struct {
	ISBN   string
	Labels []string
}

// Execute 执行分类切换
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, req UpdateCategoryRequest) (*ItemResponse, error) {
	b, err := uc.bookService.UpdateCategory(ctx, req.ISBN, req.Labels)
	metrics.InventoryAdjustmentsTotal.WithLabelValues(KindCategory, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	uc.logger.Info("分类已更新", zap.String("isbn", b.ISBN), zap.Strings("categories", b.Categories))
	return &ItemResponse{
		Item:    Project(b, DetailFields),
		Message: MsgCategoryUpdated,
	}, nil
}

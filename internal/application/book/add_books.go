package book

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/book"
)

// AddBooksUseCase 批量上架用例
// 设计说明:
// 1. 应用层负责DTO → 领域实体的转换
// 2. 校验、查重、整批写入由领域服务在一个事务内完成
type AddBooksUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewAddBooksUseCase 创建上架用例
func NewAddBooksUseCase(bookService book.Service, logger *zap.Logger) *AddBooksUseCase {
	return &AddBooksUseCase{bookService: bookService, logger: logger}
}

// BookInput 上架图书
type BookInput struct {
	ISBN       string
	Title      string
	Author     string
	Categories []string
	Price      int64 // 价格(分)
}

// AddBooksRequest 上架请求DTO
type AddBooksRequest struct {
	Items []BookInput
}

// Execute 执行上架
// 整批被拒时返回*book.RejectedError,可用RejectedViews取出被拒条目
func (uc *AddBooksUseCase) Execute(ctx context.Context, req AddBooksRequest) (*ItemsResponse, error) {
	// 1. DTO → 领域实体
	candidates := make([]*book.Book, len(req.Items))
	for i, in := range req.Items {
		candidates[i] = book.NewBook(in.ISBN, in.Title, in.Author, book.NewCategories(in.Categories...), in.Price)
	}

	// 2. 领域服务整批上架
	added, err := uc.bookService.AddBooks(ctx, candidates)
	if err != nil {
		uc.logger.Info("批量上架被拒", zap.Int("count", len(candidates)), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("批量上架成功", zap.Int("count", len(added)))
	return &ItemsResponse{
		Items:   ProjectAll(added, DetailFields),
		Message: MsgAdded,
	}, nil
}

// RejectedViews 提取被拒条目,err不是*book.RejectedError时返回nil
func RejectedViews(err error) []BookView {
	var rejected *book.RejectedError
	if !errors.As(err, &rejected) {
		return nil
	}
	return ProjectAll(rejected.Rejected, DetailFields)
}

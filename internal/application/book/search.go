package book

import (
	"context"

	"github.com/xiebiao/invoicing/internal/domain/book"
)

// SearchUseCase 图书查询用例
// 顾客查询与店员查询只是返回字段不同,共用同一个领域查询
type SearchUseCase struct {
	bookService book.Service
}

// NewSearchUseCase 创建查询用例
func NewSearchUseCase(bookService book.Service) *SearchUseCase {
	return &SearchUseCase{bookService: bookService}
}

// SearchRequest 查询条件,优先级ISBN > 书名 > 作者
type SearchRequest struct {
	ISBN   string
	Title  string
	Author string
}

// Search 顾客查询(不含库存和销量)
func (uc *SearchUseCase) Search(ctx context.Context, req SearchRequest) (*ItemsResponse, error) {
	return uc.search(ctx, req, ConsumerFields)
}

// SearchForShop 店员查询(含库存和销量)
func (uc *SearchUseCase) SearchForShop(ctx context.Context, req SearchRequest) (*ItemsResponse, error) {
	return uc.search(ctx, req, ShopFields)
}

func (uc *SearchUseCase) search(ctx context.Context, req SearchRequest, fields Field) (*ItemsResponse, error) {
	books, err := uc.bookService.Search(ctx, book.Query{
		ISBN:   req.ISBN,
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		return nil, err
	}
	return &ItemsResponse{Items: ProjectAll(books, fields), Message: MsgQueried}, nil
}

// FindByCategory 多分类并集查询
func (uc *SearchUseCase) FindByCategory(ctx context.Context, labels []string) (*ItemsResponse, error) {
	books, err := uc.bookService.FindByCategory(ctx, labels)
	if err != nil {
		return nil, err
	}
	return &ItemsResponse{Items: ProjectAll(books, CategoryFields), Message: MsgQueried}, nil
}

// TopSellers 畅销榜前5名
func (uc *SearchUseCase) TopSellers(ctx context.Context) ([]BookView, error) {
	books, err := uc.bookService.TopSellers(ctx, book.TopSellersLimit)
	if err != nil {
		return nil, err
	}
	return ProjectAll(books, RankingFields), nil
}

package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

// 调整类型(metrics标签)
const (
	KindPurchase = "purchase"
	KindRenew    = "renew"
	KindCategory = "category"
)

// PurchaseUseCase 进货用例
type PurchaseUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewPurchaseUseCase 创建进货用例
func NewPurchaseUseCase(bookService book.Service, logger *zap.Logger) *PurchaseUseCase {
	return &PurchaseUseCase{bookService: bookService, logger: logger}
}

// PurchaseRequest 进货请求
// Quantity可以为负数(盘点更正),但库存不能因此变为负数
type PurchaseRequest struct {
	ISBN     string
	Quantity int
}

// Execute 执行进货
func (uc *PurchaseUseCase) Execute(ctx context.Context, req PurchaseRequest) (*ItemResponse, error) {
	b, err := uc.bookService.Purchase(ctx, req.ISBN, req.Quantity)
	metrics.InventoryAdjustmentsTotal.WithLabelValues(KindPurchase, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	uc.logger.Info("进货完成",
		zap.String("isbn", b.ISBN),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock", b.Stock),
	)
	return &ItemResponse{
		Item:    Project(b, ShopFields),
		Message: MsgPurchased,
	}, nil
}

// RenewUseCase 调价用例
type RenewUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewRenewUseCase 创建调价用例
func NewRenewUseCase(bookService book.Service, logger *zap.Logger) *RenewUseCase {
	return &RenewUseCase{bookService: bookService, logger: logger}
}

// RenewRequest 调价请求
type RenewRequest struct {
	ISBN  string
	Price int64 // 新价格(分)
}

// Execute 执行调价
func (uc *RenewUseCase) Execute(ctx context.Context, req RenewRequest) (*ItemResponse, error) {
	b, err := uc.bookService.Renew(ctx, req.ISBN, req.Price)
	metrics.InventoryAdjustmentsTotal.WithLabelValues(KindRenew, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	uc.logger.Info("调价完成", zap.String("isbn", b.ISBN), zap.Int64("price", b.Price))
	return &ItemResponse{
		Item:    Project(b, ShopFields),
		Message: MsgRenewed,
	}, nil
}

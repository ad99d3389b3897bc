package sale

import (
	"context"
	"time"
)

// SoldEvent 销售完成事件(事务提交后发布)
type SoldEvent struct {
	ReceiptNo  string     `json:"receipt_no"`
	Lines      []SoldItem `json:"lines"`
	Total      int64      `json:"total"`
	Units      int        `json:"units"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// SoldItem 事件中的明细
type SoldItem struct {
	ISBN      string `json:"isbn"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	LineTotal int64  `json:"line_total"`
}

// NewSoldEvent 由销售单构建事件
func NewSoldEvent(r *Receipt) SoldEvent {
	items := make([]SoldItem, len(r.Lines))
	for i, l := range r.Lines {
		items[i] = SoldItem{
			ISBN:      l.ISBN,
			Quantity:  l.Quantity,
			Price:     l.Price,
			LineTotal: l.LineTotal,
		}
	}
	return SoldEvent{
		ReceiptNo:  r.No,
		Lines:      items,
		Total:      r.Total,
		Units:      r.Units,
		OccurredAt: r.SoldAt,
	}
}

// EventPublisher 销售事件发布者
// 由infrastructure层实现(RabbitMQ),发布失败不影响已提交的销售
type EventPublisher interface {
	PublishSold(ctx context.Context, event SoldEvent) error
}

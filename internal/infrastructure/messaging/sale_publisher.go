// Package messaging 领域事件发布(RabbitMQ)
package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

// RoutingKeySaleCompleted 销售完成事件的路由键
const RoutingKeySaleCompleted = "sale.completed"

// Publisher mq.Publisher中用到的方法
type Publisher interface {
	Exchange() string
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// SalePublisher 把销售完成事件发布到RabbitMQ
type SalePublisher struct {
	publisher Publisher
	logger    *zap.Logger
}

var _ sale.EventPublisher = (*SalePublisher)(nil)

// NewSalePublisher 创建销售事件发布者
func NewSalePublisher(publisher Publisher, logger *zap.Logger) *SalePublisher {
	return &SalePublisher{publisher: publisher, logger: logger}
}

// PublishSold 发布sale.completed事件并记录发布结果
func (p *SalePublisher) PublishSold(ctx context.Context, event sale.SoldEvent) error {
	err := p.publisher.Publish(ctx, RoutingKeySaleCompleted, event)
	metrics.MessagesPublishedTotal.
		WithLabelValues(p.publisher.Exchange(), RoutingKeySaleCompleted, metrics.Result(err)).
		Inc()
	if err != nil {
		p.logger.Warn("销售事件发布失败",
			zap.String("receipt_no", event.ReceiptNo),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// NoopPublisher mq.enabled=false时使用,丢弃所有事件
type NoopPublisher struct{}

// PublishSold 什么也不做
func (NoopPublisher) PublishSold(context.Context, sale.SoldEvent) error {
	return nil
}

package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/pkg/circuitbreaker"
)

// GuardedPublisher 熔断保护的事件发布者
// RabbitMQ连续失败后熔断,之后的事件直接丢弃并返回ErrOpenState,不再等待超时
type GuardedPublisher struct {
	next    sale.EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

var _ sale.EventPublisher = (*GuardedPublisher)(nil)

// NewGuardedPublisher 用默认熔断配置包装发布者
// 连续失败5次熔断30秒,半开时放行1个探测请求
func NewGuardedPublisher(next sale.EventPublisher, logger *zap.Logger) *GuardedPublisher {
	breaker := circuitbreaker.New("sale-events", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("事件发布熔断器状态变化",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return NewGuardedPublisherWithBreaker(next, breaker)
}

// NewGuardedPublisherWithBreaker 使用指定的熔断器
func NewGuardedPublisherWithBreaker(next sale.EventPublisher, breaker *circuitbreaker.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: breaker}
}

// PublishSold 熔断器关闭或半开时才真正发布
func (p *GuardedPublisher) PublishSold(ctx context.Context, event sale.SoldEvent) error {
	return p.breaker.Execute(func() error {
		return p.next.PublishSold(ctx, event)
	})
}

// State 熔断器当前状态
func (p *GuardedPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}

package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/pkg/circuitbreaker"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Exchange() string {
	return "invoicing.events"
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

func soldEvent() sale.SoldEvent {
	receipt := sale.NewReceipt("SAL1700000000000001", []sale.LineResult{
		{ISBN: "A", Price: 1000, Quantity: 2, LineTotal: 2000},
	})
	return sale.NewSoldEvent(receipt)
}

func TestSalePublisher_PublishSold(t *testing.T) {
	metrics.InitMetrics()
	counter := metrics.MessagesPublishedTotal.WithLabelValues("invoicing.events", RoutingKeySaleCompleted, metrics.ResultSuccess)
	before := testutil.ToFloat64(counter)

	event := soldEvent()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, RoutingKeySaleCompleted, event).Return(nil).Once()

	err := NewSalePublisher(pub, zap.NewNop()).PublishSold(context.Background(), event)

	assert.NoError(t, err)
	pub.AssertExpectations(t)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestSalePublisher_PublishFailure(t *testing.T) {
	metrics.InitMetrics()
	counter := metrics.MessagesPublishedTotal.WithLabelValues("invoicing.events", RoutingKeySaleCompleted, metrics.ResultFailure)
	before := testutil.ToFloat64(counter)

	boom := errors.New("channel closed")
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, RoutingKeySaleCompleted, mock.AnythingOfType("sale.SoldEvent")).Return(boom)

	err := NewSalePublisher(pub, zap.NewNop()).PublishSold(context.Background(), soldEvent())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishSold(context.Background(), soldEvent()))
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) PublishSold(context.Context, sale.SoldEvent) error {
	p.calls++
	return p.err
}

func TestGuardedPublisher_OpensAfterFailures(t *testing.T) {
	boom := errors.New("connection reset")
	next := &countingPublisher{err: boom}
	breaker := circuitbreaker.New("test", circuitbreaker.Config{
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	pub := NewGuardedPublisherWithBreaker(next, breaker)

	assert.ErrorIs(t, pub.PublishSold(context.Background(), soldEvent()), boom)
	assert.ErrorIs(t, pub.PublishSold(context.Background(), soldEvent()), boom)
	assert.Equal(t, circuitbreaker.StateOpen, pub.State())

	// 熔断后不再调用下游
	assert.ErrorIs(t, pub.PublishSold(context.Background(), soldEvent()), circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}

func TestGuardedPublisher_PassesThrough(t *testing.T) {
	next := &countingPublisher{}
	pub := NewGuardedPublisher(next, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.NoError(t, pub.PublishSold(context.Background(), soldEvent()))
	}
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, circuitbreaker.StateClosed, pub.State())
}

package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/book/booktest"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSold(ctx context.Context, event sale.SoldEvent) error {
	return m.Called(ctx, event).Error(0)
}

func setup(t *testing.T, pub sale.EventPublisher) (*SellBooksUseCase, *booktest.Memory) {
	t.Helper()
	metrics.InitMetrics()

	a := book.NewBook("A", "三体", "刘慈欣", book.NewCategories("科幻"), 100)
	a.Stock = 5
	b := book.NewBook("B", "活着", "余华", book.NewCategories("小说"), 3500)
	b.Stock = 1

	store := booktest.NewMemory(a, b)
	handler := sale.NewHandler(store, sale.DefaultLimits())
	return NewSellBooksUseCase(handler, pub, zap.NewNop()), store
}

func TestSellBooksUseCase_Success(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishSold", mock.Anything, mock.MatchedBy(func(e sale.SoldEvent) bool {
		return e.Units == 3 && e.Total == 3700 && len(e.Lines) == 2
	})).Return(nil).Once()
	uc, store := setup(t, pub)

	sold := testutil.ToFloat64(metrics.BooksSoldTotal)

	resp, err := uc.Execute(context.Background(), SellRequest{Lines: []LineInput{
		{ISBN: "A", Quantity: 2},
		{ISBN: "B", Quantity: 1},
	}})

	require.NoError(t, err)
	pub.AssertExpectations(t)
	assert.Equal(t, MsgSold, resp.Message)
	assert.Regexp(t, `^SAL\d+$`, resp.ReceiptNo)
	assert.Equal(t, int64(3700), resp.Total)
	assert.Equal(t, "37.00", resp.TotalYuan)
	assert.Equal(t, 3, resp.Units)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, LineView{ISBN: "A", Title: "三体", Author: "刘慈欣", Price: 100, Quantity: 2, LineTotal: 200}, resp.Results[0])
	assert.Equal(t, sold+3, testutil.ToFloat64(metrics.BooksSoldTotal))

	a, _ := store.Get("A")
	assert.Equal(t, 3, a.Stock)
	assert.Equal(t, 2, a.Sell)
}

func TestSellBooksUseCase_FailureNotPublished(t *testing.T) {
	pub := new(mockPublisher)
	uc, store := setup(t, pub)

	failures := testutil.ToFloat64(metrics.SalesTotal.WithLabelValues(metrics.ResultFailure, "ORDER_LIMIT_EXCEEDED"))

	_, err := uc.Execute(context.Background(), SellRequest{Lines: []LineInput{
		{ISBN: "A", Quantity: 2},
		{ISBN: "A", Quantity: 2},
	}})

	assert.ErrorIs(t, err, sale.ErrOrderLimitExceeded)
	pub.AssertNotCalled(t, "PublishSold", mock.Anything, mock.Anything)
	assert.Equal(t, failures+1, testutil.ToFloat64(metrics.SalesTotal.WithLabelValues(metrics.ResultFailure, "ORDER_LIMIT_EXCEEDED")))

	a, _ := store.Get("A")
	assert.Equal(t, 5, a.Stock)
}

// 事件发布失败时销售仍然成功
func TestSellBooksUseCase_PublishFailureIgnored(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishSold", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	uc, store := setup(t, pub)

	resp, err := uc.Execute(context.Background(), SellRequest{Lines: []LineInput{{ISBN: "B", Quantity: 1}}})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Units)
	b, _ := store.Get("B")
	assert.Equal(t, 0, b.Stock)
}

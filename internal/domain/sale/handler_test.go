package sale_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/book/booktest"
	"github.com/xiebiao/invoicing/internal/domain/sale"
)

func seedBook(isbn string, price int64, stock, sellCount int) *book.Book {
	b := book.NewBook(isbn, "书"+isbn, "作者"+isbn, book.NewCategories("小说"), price)
	b.Stock = stock
	b.Sell = sellCount
	return b
}

func newHandler(seed ...*book.Book) (*sale.Handler, *booktest.Memory) {
	store := booktest.NewMemory(seed...)
	return sale.NewHandler(store, sale.DefaultLimits()), store
}

func assertUnchanged(t *testing.T, store *booktest.Memory, isbn string, stock, sellCount int) {
	t.Helper()
	b, ok := store.Get(isbn)
	require.True(t, ok)
	assert.Equal(t, stock, b.Stock, "%s库存应不变", isbn)
	assert.Equal(t, sellCount, b.Sell, "%s销量应不变", isbn)
}

func TestHandler_SingleLine(t *testing.T) {
	h, store := newHandler(seedBook("A", 100, 5, 0))

	results, err := h.Handle(context.Background(), []sale.Line{{ISBN: "A", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sale.LineResult{
		ISBN:      "A",
		Title:     "书A",
		Author:    "作者A",
		Price:     100,
		Quantity:  2,
		LineTotal: 200,
	}, results[0])

	assertUnchanged(t, store, "A", 3, 2)
}

func TestHandler_MultipleLinesKeepOrder(t *testing.T) {
	h, store := newHandler(seedBook("A", 100, 5, 0), seedBook("B", 250, 1, 4))

	results, err := h.Handle(context.Background(), []sale.Line{
		{ISBN: "B", Quantity: 1},
		{ISBN: "A", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].ISBN)
	assert.Equal(t, int64(250), results[0].LineTotal)
	assert.Equal(t, "A", results[1].ISBN)
	assert.Equal(t, int64(200), results[1].LineTotal)

	assertUnchanged(t, store, "A", 3, 2)
	assertUnchanged(t, store, "B", 0, 5)
}

func TestHandler_Failures(t *testing.T) {
	tests := []struct {
		name    string
		lines   []sale.Line
		wantErr error
	}{
		{
			name:    "空明细",
			lines:   nil,
			wantErr: sale.ErrEmptySale,
		},
		{
			name:    "ISBN不存在",
			lines:   []sale.Line{{ISBN: "A", Quantity: 1}, {ISBN: "Z", Quantity: 1}},
			wantErr: sale.ErrInvalidISBN,
		},
		{
			name:    "单行数量4本,库存充足也拒绝",
			lines:   []sale.Line{{ISBN: "A", Quantity: 4}},
			wantErr: sale.ErrInvalidQuantity,
		},
		{
			name:    "负数量",
			lines:   []sale.Line{{ISBN: "A", Quantity: -1}},
			wantErr: sale.ErrInvalidQuantity,
		},
		{
			name:    "超过库存",
			lines:   []sale.Line{{ISBN: "B", Quantity: 2}},
			wantErr: sale.ErrInsufficientStock,
		},
		{
			name:    "2+2超过每单上限",
			lines:   []sale.Line{{ISBN: "A", Quantity: 2}, {ISBN: "C", Quantity: 2}},
			wantErr: sale.ErrOrderLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newHandler(seedBook("A", 100, 10, 0), seedBook("B", 100, 1, 0), seedBook("C", 100, 10, 7))

			results, err := h.Handle(context.Background(), tt.lines)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, results, "失败时不返回部分结果")

			assertUnchanged(t, store, "A", 10, 0)
			assertUnchanged(t, store, "B", 1, 0)
			assertUnchanged(t, store, "C", 10, 7)
		})
	}
}

func TestHandler_RollsBackEarlierLines(t *testing.T) {
	h, store := newHandler(seedBook("A", 100, 5, 0), seedBook("B", 100, 0, 0))

	_, err := h.Handle(context.Background(), []sale.Line{
		{ISBN: "A", Quantity: 2},
		{ISBN: "B", Quantity: 1},
	})
	require.ErrorIs(t, err, sale.ErrInsufficientStock)

	assert.Equal(t, 1, store.Saves(), "第一行已经保存过")
	assertUnchanged(t, store, "A", 5, 0)
}

func TestHandler_RepeatedISBNSeesEarlierLines(t *testing.T) {
	h, store := newHandler(seedBook("A", 100, 2, 0))

	_, err := h.Handle(context.Background(), []sale.Line{
		{ISBN: "A", Quantity: 2},
		{ISBN: "A", Quantity: 1},
	})
	require.ErrorIs(t, err, sale.ErrInsufficientStock, "第二行看到的库存是0")
	assertUnchanged(t, store, "A", 2, 0)

	results, err := h.Handle(context.Background(), []sale.Line{
		{ISBN: "A", Quantity: 1},
		{ISBN: "A", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assertUnchanged(t, store, "A", 0, 2)
}

func TestHandler_ZeroQuantity(t *testing.T) {
	h, store := newHandler(seedBook("A", 100, 0, 0))

	results, err := h.Handle(context.Background(), []sale.Line{{ISBN: "A", Quantity: 0}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(0), results[0].LineTotal)
	assertUnchanged(t, store, "A", 0, 0)
}

func TestHandler_CustomLimits(t *testing.T) {
	store := booktest.NewMemory(seedBook("A", 100, 20, 0))
	h := sale.NewHandler(store, sale.Limits{MaxPerLine: 5, MaxPerOrder: 6})

	_, err := h.Handle(context.Background(), []sale.Line{{ISBN: "A", Quantity: 5}})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), []sale.Line{{ISBN: "A", Quantity: 4}, {ISBN: "A", Quantity: 3}})
	assert.ErrorIs(t, err, sale.ErrOrderLimitExceeded)
}

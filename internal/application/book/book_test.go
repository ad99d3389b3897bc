package book

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/book/booktest"
	"github.com/xiebiao/invoicing/pkg/metrics"
)

func seeded(isbn, title, author string, price int64, stock, sell int, labels ...string) *book.Book {
	b := book.NewBook(isbn, title, author, book.NewCategories(labels...), price)
	b.Stock = stock
	b.Sell = sell
	return b
}

func newBookService(seed ...*book.Book) (book.Service, *booktest.Memory) {
	metrics.InitMetrics()
	store := booktest.NewMemory(seed...)
	return book.NewService(store, store), store
}

func TestProject_FieldSets(t *testing.T) {
	b := seeded("A", "三体", "刘慈欣", 9900, 0, 7, "科幻", "小说")

	consumer, err := json.Marshal(Project(b, ConsumerFields))
	require.NoError(t, err)
	assert.JSONEq(t, `{"isbn":"A","title":"三体","author":"刘慈欣","price":9900,"price_yuan":"99.00"}`, string(consumer))

	// 库存为0时店员视图仍然返回stock字段
	shop, err := json.Marshal(Project(b, ShopFields))
	require.NoError(t, err)
	assert.JSONEq(t, `{"isbn":"A","title":"三体","author":"刘慈欣","price":9900,"price_yuan":"99.00","stock":0,"sell":7}`, string(shop))

	detail := Project(b, DetailFields)
	assert.Equal(t, []string{"小说", "科幻"}, detail.Categories)

	category := Project(b, CategoryFields)
	assert.NotNil(t, category.Stock)
	assert.Nil(t, category.Sell)
}

func TestYuan(t *testing.T) {
	assert.Equal(t, "0.00", FormatYuan(0))
	assert.Equal(t, "59.90", FormatYuan(5990))
	assert.Equal(t, "0.05", FormatYuan(5))

	cents, err := ParseYuan("12.5")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), cents)

	_, err = ParseYuan("1.234")
	assert.ErrorIs(t, err, book.ErrInvalidPrice)
	_, err = ParseYuan("abc")
	assert.ErrorIs(t, err, book.ErrInvalidPrice)
}

func TestAddBooksUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("上架成功", func(t *testing.T) {
		svc, store := newBookService()
		resp, err := NewAddBooksUseCase(svc, zap.NewNop()).Execute(ctx, AddBooksRequest{Items: []BookInput{
			{ISBN: "A", Title: "三体", Author: "刘慈欣", Categories: []string{"科幻"}, Price: 9900},
			{ISBN: "B", Title: "活着", Author: "余华", Categories: []string{"小说"}, Price: 3500},
		}})

		require.NoError(t, err)
		assert.Equal(t, MsgAdded, resp.Message)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "A", resp.Items[0].ISBN)
		assert.Equal(t, "B", resp.Items[1].ISBN)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("被拒条目可以取出", func(t *testing.T) {
		svc, store := newBookService()
		_, err := NewAddBooksUseCase(svc, zap.NewNop()).Execute(ctx, AddBooksRequest{Items: []BookInput{
			{ISBN: "A", Title: "三体", Author: "刘慈欣", Categories: []string{"科幻"}, Price: 9900},
			{ISBN: "B", Title: "", Author: "余华", Categories: []string{"小说"}, Price: 3500},
		}})

		assert.ErrorIs(t, err, book.ErrInvalidField)
		views := RejectedViews(err)
		require.Len(t, views, 1)
		assert.Equal(t, "B", views[0].ISBN)
		assert.Equal(t, 0, store.Len())
	})

	assert.Nil(t, RejectedViews(book.ErrEmptyInput))
}

func TestSearchUseCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBookService(
		seeded("A", "三体", "刘慈欣", 9900, 5, 10, "科幻"),
		seeded("B", "球状闪电", "刘慈欣", 4500, 2, 3, "科幻", "小说"),
		seeded("C", "活着", "余华", 3500, 1, 20, "小说"),
	)
	uc := NewSearchUseCase(svc)

	t.Run("顾客查询不含库存销量", func(t *testing.T) {
		resp, err := uc.Search(ctx, SearchRequest{Author: "刘慈欣"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 2)
		assert.Nil(t, resp.Items[0].Stock)
		assert.Nil(t, resp.Items[0].Sell)
		assert.Equal(t, MsgQueried, resp.Message)
	})

	t.Run("店员查询含库存销量", func(t *testing.T) {
		resp, err := uc.SearchForShop(ctx, SearchRequest{ISBN: "C", Title: "三体"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "C", resp.Items[0].ISBN)
		assert.Equal(t, 1, *resp.Items[0].Stock)
		assert.Equal(t, 20, *resp.Items[0].Sell)
	})

	t.Run("缺少参数", func(t *testing.T) {
		_, err := uc.Search(ctx, SearchRequest{})
		assert.ErrorIs(t, err, book.ErrMissingQueryParam)
	})

	t.Run("分类并集", func(t *testing.T) {
		resp, err := uc.FindByCategory(ctx, []string{"小说", "科幻"})
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "A"}, isbnsOf(resp.Items))
		assert.NotNil(t, resp.Items[0].Stock)
		assert.Nil(t, resp.Items[0].Sell)
	})

	t.Run("畅销榜", func(t *testing.T) {
		views, err := uc.TopSellers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "A", "B"}, isbnsOf(views))
		assert.Nil(t, views[0].Stock)
	})
}

func TestInventoryUseCases(t *testing.T) {
	ctx := context.Background()
	svc, store := newBookService(seeded("A", "三体", "刘慈欣", 100, 3, 0, "科幻"))

	resp, err := NewPurchaseUseCase(svc, zap.NewNop()).Execute(ctx, PurchaseRequest{ISBN: "A", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 13, *resp.Item.Stock)
	assert.Equal(t, MsgPurchased, resp.Message)

	_, err = NewRenewUseCase(svc, zap.NewNop()).Execute(ctx, RenewRequest{ISBN: "A", Price: -1})
	assert.ErrorIs(t, err, book.ErrInvalidPrice)
	a, _ := store.Get("A")
	assert.Equal(t, int64(100), a.Price)

	resp, err = NewRenewUseCase(svc, zap.NewNop()).Execute(ctx, RenewRequest{ISBN: "A", Price: 250})
	require.NoError(t, err)
	assert.Equal(t, int64(250), *resp.Item.Price)

	resp, err = NewUpdateCategoryUseCase(svc, zap.NewNop()).Execute(ctx, UpdateCategoryRequest{ISBN: "A", Labels: []string{"经典", "科幻"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"经典"}, resp.Item.Categories)
	assert.Equal(t, MsgCategoryUpdated, resp.Message)
}

func isbnsOf(views []BookView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ISBN
	}
	return out
}

package router

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	appstaff "github.com/xiebiao/invoicing/internal/application/staff"
	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/internal/domain/staff"
	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	"github.com/xiebiao/invoicing/internal/infrastructure/messaging"
	"github.com/xiebiao/invoicing/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/invoicing/internal/interface/http/handler"
	"github.com/xiebiao/invoicing/internal/interface/http/middleware"
	"github.com/xiebiao/invoicing/pkg/jwt"
)

// memorySessions 内存会话存储,同时实现黑名单
type memorySessions struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]struct{}
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]struct{}),
	}
}

func (s *memorySessions) SaveSession(_ context.Context, staffID uint, data map[string]interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[staffID] = data
	return nil
}

func (s *memorySessions) DeleteSession(_ context.Context, staffID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, staffID)
	return nil
}

func (s *memorySessions) AddToBlacklist(_ context.Context, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = struct{}{}
	return nil
}

func (s *memorySessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[token]
	return ok, nil
}

// envelope 统一响应结构
type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Reason  string      `json:"reason"`
	Data    interface{} `json:"data"`
}

type testServer struct {
	client *resty.Client
	repo   book.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	db, err := sqlstore.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, false)
	require.NoError(t, err)
	require.NoError(t, sqlstore.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	logger := zap.NewNop()
	bookRepo := sqlstore.NewBookRepository(db)
	txManager := sqlstore.NewTxManager(db)
	bookService := book.NewService(bookRepo, txManager)
	staffService := staff.NewService(sqlstore.NewStaffRepository(db), bcrypt.MinCost)
	sessions := newMemorySessions()
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	h := Handlers{
		Book: handler.NewBookHandler(
			appbook.NewAddBooksUseCase(bookService, logger),
			appbook.NewUpdateCategoryUseCase(bookService, logger),
			appbook.NewSearchUseCase(bookService),
			appbook.NewPurchaseUseCase(bookService, logger),
			appbook.NewRenewUseCase(bookService, logger),
		),
		Sale: handler.NewSaleHandler(appsale.NewSellBooksUseCase(
			sale.NewHandler(txManager, sale.DefaultLimits()),
			messaging.NoopPublisher{},
			logger,
		)),
		Staff: handler.NewStaffHandler(
			appstaff.NewRegisterUseCase(staffService),
			appstaff.NewLoginUseCase(staffService, jwtManager, sessions, logger),
			appstaff.NewLogoutUseCase(jwtManager, sessions),
		),
	}
	engine := New(cfg, h, middleware.NewAuthMiddleware(jwtManager, sessions), logger)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &testServer{
		client: resty.New().SetBaseURL(srv.URL),
		repo:   bookRepo,
	}
}

// login 注册并登录,返回带Token的客户端
func (s *testServer) login(t *testing.T) (*resty.Client, string) {
	t.Helper()

	var reg envelope
	_, err := s.client.R().
		SetBody(map[string]string{"email": "clerk@shop.com", "password": "abc12345", "nickname": "店员甲"}).
		SetResult(&reg).
		Post("/api/v1/staff/register")
	require.NoError(t, err)
	require.Equal(t, 0, reg.Code, reg.Message)

	var login struct {
		Code int `json:"code"`
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	_, err = s.client.R().
		SetBody(map[string]string{"email": "clerk@shop.com", "password": "abc12345"}).
		SetResult(&login).
		Post("/api/v1/staff/login")
	require.NoError(t, err)
	require.Equal(t, 0, login.Code)
	require.NotEmpty(t, login.Data.AccessToken)

	token := login.Data.AccessToken
	return s.client.Clone().SetAuthToken(token), token
}

func TestShopRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	var resp envelope
	_, err := s.client.R().SetBody(map[string]interface{}{"lines": []interface{}{}}).SetResult(&resp).Post("/api/v1/shop/sales")
	require.NoError(t, err)
	assert.Equal(t, "UNAUTHORIZED", resp.Reason)
}

func TestBookstoreFlow(t *testing.T) {
	s := newTestServer(t)
	shop, token := s.login(t)

	// 1. 上架
	var added envelope
	_, err := shop.R().SetBody(map[string]interface{}{
		"items": []map[string]interface{}{
			{"isbn": "A", "title": "三体", "author": "刘慈欣", "categories": []string{"科幻"}, "price": 100},
			{"isbn": "B", "title": "活着", "author": "余华", "categories": []string{"小说"}, "price": 3500},
		},
	}).SetResult(&added).Post("/api/v1/shop/books")
	require.NoError(t, err)
	require.Equal(t, 0, added.Code, added.Message)
	assert.Equal(t, appbook.MsgAdded, added.Message)

	// 2. 重复上架整批被拒,data返回被拒条目
	var rejected struct {
		Reason string             `json:"reason"`
		Data   []appbook.BookView `json:"data"`
	}
	_, err = shop.R().SetBody(map[string]interface{}{
		"items": []map[string]interface{}{
			{"isbn": "C", "title": "围城", "author": "钱钟书", "categories": []string{"小说"}, "price": 100},
			{"isbn": "A", "title": "三体", "author": "刘慈欣", "categories": []string{"科幻"}, "price": 100},
		},
	}).SetResult(&rejected).Post("/api/v1/shop/books")
	require.NoError(t, err)
	assert.Equal(t, "DUPLICATE_OR_INVALID_FIELD", rejected.Reason)
	require.Len(t, rejected.Data, 1)
	assert.Equal(t, "A", rejected.Data[0].ISBN)

	// 3. 进货
	var purchased struct {
		Code int              `json:"code"`
		Data appbook.BookView `json:"data"`
	}
	_, err = shop.R().SetBody(map[string]int{"quantity": 10}).SetResult(&purchased).Post("/api/v1/shop/books/A/purchase")
	require.NoError(t, err)
	require.Equal(t, 0, purchased.Code)
	assert.Equal(t, 10, *purchased.Data.Stock)

	// 4. 收银
	var sold struct {
		Code    int                  `json:"code"`
		Message string               `json:"message"`
		Data    appsale.SellResponse `json:"data"`
	}
	_, err = shop.R().SetBody(map[string]interface{}{
		"lines": []map[string]interface{}{{"isbn": "A", "quantity": 2}},
	}).SetResult(&sold).Post("/api/v1/shop/sales")
	require.NoError(t, err)
	require.Equal(t, 0, sold.Code, sold.Message)
	assert.Equal(t, appsale.MsgSold, sold.Message)
	require.Len(t, sold.Data.Results, 1)
	assert.Equal(t, int64(200), sold.Data.Results[0].LineTotal)

	a, err := s.repo.FindByISBN(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 8, a.Stock)
	assert.Equal(t, 2, a.Sell)

	// 5. 超过整单上限,库存不变
	var limited envelope
	_, err = shop.R().SetBody(map[string]interface{}{
		"lines": []map[string]interface{}{{"isbn": "A", "quantity": 2}, {"isbn": "B", "quantity": 0}, {"isbn": "A", "quantity": 2}},
	}).SetResult(&limited).Post("/api/v1/shop/sales")
	require.NoError(t, err)
	assert.Equal(t, "ORDER_LIMIT_EXCEEDED", limited.Reason)

	a, err = s.repo.FindByISBN(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 8, a.Stock)

	// 6. 顾客查询看不到库存
	var search struct {
		Data []map[string]interface{} `json:"data"`
	}
	_, err = s.client.R().SetQueryParam("book", "三").SetResult(&search).Get("/api/v1/books/search")
	require.NoError(t, err)
	require.Len(t, search.Data, 1)
	assert.NotContains(t, search.Data[0], "stock")
	assert.NotContains(t, search.Data[0], "sell")

	// 7. 店员查询可以看到库存和销量
	var shopSearch struct {
		Data []map[string]interface{} `json:"data"`
	}
	_, err = shop.R().SetQueryParam("isbn", "A").SetResult(&shopSearch).Get("/api/v1/shop/books/search")
	require.NoError(t, err)
	require.Len(t, shopSearch.Data, 1)
	assert.EqualValues(t, 8, shopSearch.Data[0]["stock"])
	assert.EqualValues(t, 2, shopSearch.Data[0]["sell"])

	// 8. 调价为负数
	var renew envelope
	_, err = shop.R().SetBody(map[string]int{"price": -1}).SetResult(&renew).Put("/api/v1/shop/books/A/price")
	require.NoError(t, err)
	assert.Equal(t, "INVALID_PRICE", renew.Reason)

	// 9. 切换分类
	var category struct {
		Data appbook.BookView `json:"data"`
	}
	_, err = shop.R().SetBody(map[string][]string{"labels": {"经典"}}).SetResult(&category).Patch("/api/v1/shop/books/A/categories")
	require.NoError(t, err)
	assert.Equal(t, []string{"科幻", "经典"}, category.Data.Categories)

	// 10. 分类查询与畅销榜
	var byCategory struct {
		Data []appbook.BookView `json:"data"`
	}
	_, err = s.client.R().SetQueryParam("category", "经典,小说").SetResult(&byCategory).Get("/api/v1/books/categories")
	require.NoError(t, err)
	assert.Len(t, byCategory.Data, 2)

	var top struct {
		Data []appbook.BookView `json:"data"`
	}
	_, err = s.client.R().SetResult(&top).Get("/api/v1/books/top-sellers")
	require.NoError(t, err)
	require.Len(t, top.Data, 2)
	assert.Equal(t, "A", top.Data[0].ISBN)

	// 11. 登出后Token失效
	var logout envelope
	_, err = shop.R().SetResult(&logout).Post("/api/v1/staff/logout")
	require.NoError(t, err)
	require.Equal(t, 0, logout.Code)

	var after envelope
	_, err = s.client.R().SetAuthToken(token).SetResult(&after).Get("/api/v1/shop/books/search?isbn=A")
	require.NoError(t, err)
	assert.Equal(t, "UNAUTHORIZED", after.Reason)
}

func TestUpdateCategory_NotFoundBeforeLabels(t *testing.T) {
	s := newTestServer(t)
	shop, _ := s.login(t)

	var missing envelope
	_, err := shop.R().SetBody(map[string]interface{}{"labels": nil}).SetResult(&missing).Patch("/api/v1/shop/books/NOPE/categories")
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", missing.Reason)

	var added envelope
	_, err = shop.R().SetBody(map[string]interface{}{
		"items": []map[string]interface{}{
			{"isbn": "A", "title": "三体", "author": "刘慈欣", "categories": []string{"科幻"}, "price": 100},
		},
	}).SetResult(&added).Post("/api/v1/shop/books")
	require.NoError(t, err)
	require.Equal(t, 0, added.Code, added.Message)

	// 图书存在时才校验标签
	var invalid envelope
	_, err = shop.R().SetBody(map[string]interface{}{"labels": nil}).SetResult(&invalid).Patch("/api/v1/shop/books/A/categories")
	require.NoError(t, err)
	assert.Equal(t, "INVALID_INPUT", invalid.Reason)
}

func TestSearch_MissingParam(t *testing.T) {
	s := newTestServer(t)

	var resp envelope
	_, err := s.client.R().SetResult(&resp).Get("/api/v1/books/search")
	require.NoError(t, err)
	assert.Equal(t, "MISSING_QUERY_PARAM", resp.Reason)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.client.R().Get("/ping")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
	assert.NotEmpty(t, resp.Header().Get(middleware.HeaderRequestID))
}

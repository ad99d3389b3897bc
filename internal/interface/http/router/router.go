// Package router 组装gin引擎:中间件、路由分组、文档与指标端点
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	"github.com/xiebiao/invoicing/internal/interface/http/handler"
	"github.com/xiebiao/invoicing/internal/interface/http/middleware"
	"github.com/xiebiao/invoicing/pkg/metrics"
	"github.com/xiebiao/invoicing/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Book  *handler.BookHandler
	Sale  *handler.SaleHandler
	Staff *handler.StaffHandler
}

// New 创建并配置Gin引擎
// 中间件顺序: Recovery → Tracing → Metrics → Logger → (Auth) → Handler
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, logger *zap.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.Logger(logger))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	// Swagger文档,访问 /swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		// 顾客接口(公开)
		books := v1.Group("/books")
		{
			books.GET("/search", h.Book.Search)
			books.GET("/categories", h.Book.FindByCategory)
			books.GET("/top-sellers", h.Book.TopSellers)
		}

		// 店员账号
		staff := v1.Group("/staff")
		{
			staff.POST("/register", h.Staff.Register)
			staff.POST("/login", h.Staff.Login)
			staff.POST("/logout", auth.RequireAuth(), h.Staff.Logout)
		}

		// 店铺接口(需要登录)
		shop := v1.Group("/shop")
		shop.Use(auth.RequireAuth())
		{
			shop.POST("/books", h.Book.AddBooks)
			shop.GET("/books/search", h.Book.SearchForShop)
			shop.PATCH("/books/:isbn/categories", h.Book.UpdateCategory)
			shop.POST("/books/:isbn/purchase", h.Book.Purchase)
			shop.PUT("/books/:isbn/price", h.Book.Renew)
			shop.POST("/sales", h.Sale.Sales)
		}
	}

	return r
}

//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 工作流程:
// 1. 在本文件中声明Provider和Injector
// 2. 运行 `wire gen ./cmd/api`
// 3. 生成wire_gen.go,main.go调用其中的InitializeApp()

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	appstaff "github.com/xiebiao/invoicing/internal/application/staff"
	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	redisstore "github.com/xiebiao/invoicing/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/invoicing/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/invoicing/internal/interface/http/handler"
	"github.com/xiebiao/invoicing/internal/interface/http/middleware"
	"github.com/xiebiao/invoicing/internal/interface/http/router"
	"github.com/xiebiao/invoicing/internal/interface/rpc"
)

// infrastructureSet 数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideSessionStore,
	provideEventPublisher,
	wire.Bind(new(appstaff.SessionStore), new(*redisstore.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redisstore.SessionStore)),
	wire.Bind(new(rpc.TokenBlacklist), new(*redisstore.SessionStore)),
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	sqlstore.NewBookRepository,
	sqlstore.NewStaffRepository,
	sqlstore.NewTxManager,
	wire.Bind(new(book.TxManager), new(*sqlstore.TxManager)),
)

// domainSet 领域服务和收银事务处理器
var domainSet = wire.NewSet(
	book.NewService,
	provideStaffService,
	provideLimits,
	sale.NewHandler,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewAddBooksUseCase,
	appbook.NewUpdateCategoryUseCase,
	appbook.NewSearchUseCase,
	appbook.NewPurchaseUseCase,
	appbook.NewRenewUseCase,
	appsale.NewSellBooksUseCase,
	appstaff.NewRegisterUseCase,
	appstaff.NewLoginUseCase,
	appstaff.NewLogoutUseCase,
)

// interfaceSet HTTP与gRPC接口
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	handler.NewSaleHandler,
	handler.NewStaffHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	rpc.NewServer,
	rpc.NewAuthenticator,
	provideGRPCServer,
	wire.Struct(new(App), "*"),
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序释放MQ、Redis和数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}

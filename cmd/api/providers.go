package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"gorm.io/gorm"

	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/internal/domain/staff"
	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	"github.com/xiebiao/invoicing/internal/infrastructure/messaging"
	redisstore "github.com/xiebiao/invoicing/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/invoicing/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/invoicing/internal/interface/rpc"
	"github.com/xiebiao/invoicing/pkg/jwt"
	"github.com/xiebiao/invoicing/pkg/mq"
)

// App 进程内的两个入口
type App struct {
	Engine *gin.Engine
	GRPC   *GRPCServer
}

// GRPCServer gRPC服务器及其健康检查
type GRPCServer struct {
	Server *grpc.Server
	Health *health.Server
}

// provideDB 数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := sqlstore.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := sqlstore.Close(db); err != nil {
			logger.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}, nil
}

// provideRedis Redis连接,cleanup关闭客户端
func provideRedis(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redisstore.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		_ = client.Close()
	}, nil
}

// provideSessionStore 会话存储和Token黑名单
func provideSessionStore(client *goredis.Client) *redisstore.SessionStore {
	return redisstore.NewSessionStore(client)
}

// provideEventPublisher 销售事件发布者
// mq.enabled=false或连接失败时退化为NoopPublisher,收银不受影响
// 连接成功时用熔断器包装,RabbitMQ故障期间不拖慢收银
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (sale.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return messaging.NoopPublisher{}, func() {}
	}

	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		logger.Warn("RabbitMQ不可用,销售事件不发布", zap.Error(err))
		return messaging.NoopPublisher{}, func() {}
	}
	return messaging.NewGuardedPublisher(messaging.NewSalePublisher(p, logger), logger), func() {
		_ = p.Close()
	}
}

// provideStaffService 店员领域服务(bcrypt cost来自配置)
func provideStaffService(cfg *config.Config, repo staff.Repository) staff.Service {
	return staff.NewService(repo, cfg.JWT.BcryptCost)
}

// provideLimits 限购规则
func provideLimits(cfg *config.Config) sale.Limits {
	return sale.Limits{
		MaxPerLine:  cfg.Sales.MaxPerLine,
		MaxPerOrder: cfg.Sales.MaxPerOrder,
	}
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideGRPCServer 注册InvoicingService、健康检查和reflection
func provideGRPCServer(srv *rpc.Server, auth *rpc.Authenticator, logger *zap.Logger) *GRPCServer {
	s, h := rpc.NewGRPCServer(srv, auth, logger)
	return &GRPCServer{Server: s, Health: h}
}

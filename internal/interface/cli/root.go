// Package cli 店员管理命令行(cobra)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/invoicing/internal/application/book"
	appsale "github.com/xiebiao/invoicing/internal/application/sale"
	"github.com/xiebiao/invoicing/internal/domain/book"
	"github.com/xiebiao/invoicing/internal/domain/sale"
	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	"github.com/xiebiao/invoicing/internal/infrastructure/logger"
	"github.com/xiebiao/invoicing/internal/infrastructure/messaging"
	"github.com/xiebiao/invoicing/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/invoicing/pkg/mq"
)

// SaleWatcher 订阅销售事件(watch-sales命令)
type SaleWatcher interface {
	Consume(ctx context.Context, handler func(ctx context.Context, routingKey string, body []byte) error) error
	Close() error
}

// App 命令依赖的用例集合
// 测试时直接构造App注入,跳过配置加载和数据库连接
type App struct {
	AddBooks       *appbook.AddBooksUseCase
	UpdateCategory *appbook.UpdateCategoryUseCase
	Search         *appbook.SearchUseCase
	Purchase       *appbook.PurchaseUseCase
	Renew          *appbook.RenewUseCase
	SellBooks      *appsale.SellBooksUseCase

	// NewWatcher 为nil时watch-sales不可用
	NewWatcher func() (SaleWatcher, error)

	closers []func()
}

// NewApp 由图书仓储和事务管理器组装用例
func NewApp(repo book.Repository, tx book.TxManager, limits sale.Limits, publisher sale.EventPublisher, log *zap.Logger) *App {
	svc := book.NewService(repo, tx)
	return &App{
		AddBooks:       appbook.NewAddBooksUseCase(svc, log),
		UpdateCategory: appbook.NewUpdateCategoryUseCase(svc, log),
		Search:         appbook.NewSearchUseCase(svc),
		Purchase:       appbook.NewPurchaseUseCase(svc, log),
		Renew:          appbook.NewRenewUseCase(svc, log),
		SellBooks:      appsale.NewSellBooksUseCase(sale.NewHandler(tx, limits), publisher, log),
	}
}

// Close 释放加载时打开的资源(数据库、MQ连接、日志缓冲)
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewRootCommand 创建根命令
// app为nil时在PersistentPreRunE中按--config加载配置并连接数据库
func NewRootCommand(app *App) *cobra.Command {
	v := viper.New()
	injected := app != nil

	root := &cobra.Command{
		Use:           "invoicing-cli",
		Short:         "书店进销存管理命令行",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if injected {
				return nil
			}
			loaded, err := loadApp(v.GetString("config"), v.GetString("log-level"))
			if err != nil {
				return err
			}
			app = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if !injected && app != nil {
				app.Close()
			}
		},
	}

	root.PersistentFlags().String("config", "", "配置文件路径(默认./config/config.yaml)")
	root.PersistentFlags().String("log-level", "warn", "日志级别")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	// 子命令在执行时才读取app,保证PersistentPreRunE先完成加载
	get := func() *App { return app }
	root.AddCommand(
		newAddBookCommand(get),
		newCategoryCommand(get),
		newSearchCommand(get),
		newTopSellersCommand(get),
		newPurchaseCommand(get),
		newRenewCommand(get),
		newSellCommand(get),
		newWatchSalesCommand(get),
	)
	return root
}

// Execute 命令行入口
func Execute() error {
	return NewRootCommand(nil).Execute()
}

// loadApp 配置 → 日志 → 数据库 → MQ → 用例
func loadApp(configPath, logLevel string) (*App, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	// 命令输出走stdout,日志统一写stderr
	cfg.Log.Level = logLevel
	cfg.Log.Output = "stderr"
	log, syncLog, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := sqlstore.NewDB(cfg, log)
	if err != nil {
		syncLog()
		return nil, err
	}

	var publisher sale.EventPublisher = messaging.NoopPublisher{}
	var closers []func()
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
		if err != nil {
			log.Warn("RabbitMQ不可用,销售事件不发布", zap.Error(err))
		} else {
			publisher = messaging.NewGuardedPublisher(messaging.NewSalePublisher(p, log), log)
			closers = append(closers, func() { _ = p.Close() })
		}
	}

	limits := sale.Limits{MaxPerLine: cfg.Sales.MaxPerLine, MaxPerOrder: cfg.Sales.MaxPerOrder}
	app := NewApp(sqlstore.NewBookRepository(db), sqlstore.NewTxManager(db), limits, publisher, log)
	app.NewWatcher = func() (SaleWatcher, error) {
		if !cfg.MQ.Enabled {
			return nil, fmt.Errorf("mq.enabled=false,无法订阅销售事件")
		}
		return mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, "", []string{"sale.*"}, log)
	}
	app.closers = append([]func(){syncLog, func() { _ = sqlstore.Close(db) }}, closers...)
	return app, nil
}

// printJSON 以缩进JSON输出
func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

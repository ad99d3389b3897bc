package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xiebiao/invoicing/internal/infrastructure/config"
	"github.com/xiebiao/invoicing/internal/infrastructure/logger"
	"github.com/xiebiao/invoicing/pkg/tracing"
)

// @title        书店进销存API
// @version      1.0
// @description  图书上架、查询、进货调价与收银
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zl, syncLog, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer syncLog()

	// 3. 链路追踪
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			zl.Warn("链路追踪初始化失败,继续运行", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					zl.Warn("关闭Tracer失败", zap.Error(err))
				}
			}()
		}
	}

	// 4. 依赖注入(Wire生成)
	app, cleanup, err := InitializeApp(cfg, zl)
	if err != nil {
		zl.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	// 5. HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 2)
	go func() {
		zl.Info("HTTP服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常退出: %w", err)
		}
	}()

	// 6. gRPC服务
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			zl.Fatal("gRPC监听端口失败", zap.Int("port", cfg.GRPC.Port), zap.Error(err))
		}
		go func() {
			zl.Info("gRPC服务启动", zap.String("addr", lis.Addr().String()))
			if err := app.GRPC.Server.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常退出: %w", err)
			}
		}()
	}

	// 7. 等待中断信号或服务异常
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zl.Info("收到退出信号", zap.String("signal", sig.String()))
	case err := <-errCh:
		zl.Error("服务异常", zap.Error(err))
	}

	// 8. 优雅关闭:先摘除健康检查,再停止接收新请求
	app.GRPC.Health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("HTTP服务关闭失败", zap.Error(err))
	}
	app.GRPC.Server.GracefulStop()
	zl.Info("服务已关闭")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"eldercare-data/internal/config"
	"eldercare-data/internal/database"
	"eldercare-data/internal/logger"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/service"

	"go.uber.org/zap"
)

// 独立运行的审计日志归档进程。API 进程内也会跑同样的循环；
// 需要把归档与 API 分开部署时用这个入口。
func main() {
	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "audit-processor")
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	processor := service.NewAuditLogProcessor(
		db,
		repository.NewPostgresAuditLogsRepo(),
		cfg.Audit.DrainInterval,
		cfg.Audit.BatchSize,
		zlog,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	_ = processor.Run(ctx)
}

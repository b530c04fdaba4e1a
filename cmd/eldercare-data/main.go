package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eldercare-data/internal/config"
	"eldercare-data/internal/database"
	httpapi "eldercare-data/internal/http"
	"eldercare-data/internal/logger"
	"eldercare-data/internal/notify"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/service"
	"eldercare-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "eldercare-data")
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var kv store.KV = store.NewRedisKV(redisClient)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zlog.Warn("redis unavailable, search cache disabled", zap.Error(err))
		kv = nil
	}

	// repositories
	usersRepo := repository.NewPostgresUsersRepo()
	clientsRepo := repository.NewPostgresClientsRepo()
	attendantsRepo := repository.NewPostgresAttendantsRepo()
	teamsRepo := repository.NewPostgresTeamsRepo()
	specialtiesRepo := repository.NewPostgresSpecialtiesRepo()
	functionsRepo := repository.NewPostgresFunctionsRepo()
	auditLogsRepo := repository.NewPostgresAuditLogsRepo()

	// services
	associations := service.NewAttendantAssociationService(
		attendantsRepo, teamsRepo, specialtiesRepo, functionsRepo, zlog)
	userService := service.NewUserService(db, usersRepo, clientsRepo, kv, zlog)
	attendantService := service.NewAttendantService(
		db, usersRepo, clientsRepo, attendantsRepo, teamsRepo, functionsRepo,
		associations, kv, zlog)
	teamService := service.NewTeamService(db, teamsRepo, specialtiesRepo, functionsRepo, zlog)

	var sender notify.Sender = notify.NopSender{}
	if cfg.Notify.Enabled {
		sender = notify.NewGatewayClient(cfg.Notify.GatewayAddr, cfg.Notify.APIKey, cfg.Notify.Timeout, zlog)
	}
	notificationService := service.NewNotificationService(db, usersRepo, sender, zlog)

	// HTTP
	router := httpapi.NewRouter(zlog)
	router.RegisterHealthz()
	router.RegisterUserRoutes(httpapi.NewUsersHandler(userService, zlog))
	router.RegisterAttendantRoutes(httpapi.NewAttendantsHandler(attendantService, zlog))
	router.RegisterTeamRoutes(
		httpapi.NewTeamsHandler(teamService, attendantService, zlog),
		httpapi.NewLookupsHandler(teamService, zlog))
	router.RegisterNotificationRoutes(httpapi.NewNotificationsHandler(notificationService, zlog))

	srv := service.NewServer(cfg.HTTP.Addr, httpapi.AccessLog(zlog, router), zlog)

	// audit log archiving runs in-process alongside the API
	processor := service.NewAuditLogProcessor(db, auditLogsRepo, cfg.Audit.DrainInterval, cfg.Audit.BatchSize, zlog)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = processor.Run(ctx)
	}()

	go func() {
		if err := srv.Start(); err != nil {
			zlog.Error("http server stopped", zap.Error(err))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-flow/internal/config"
	"github.com/ignatzorin/freelance-flow/internal/db"
	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/goroutine"
	httpHandlers "github.com/ignatzorin/freelance-flow/internal/http/handlers"
	"github.com/ignatzorin/freelance-flow/internal/http/middleware"
	httpRouter "github.com/ignatzorin/freelance-flow/internal/http/router"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/repository"
	"github.com/ignatzorin/freelance-flow/internal/service"
	"github.com/ignatzorin/freelance-flow/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	limiterStore, closeLimiter, err := middleware.NewRateLimitStore(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подготовки rate limiter: %v", err)
	}
	defer func() {
		if err := closeLimiter(); err != nil {
			logger.Log.Warnf("main: ошибка закрытия хранилища rate limiter: %v", err)
		}
	}()

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	rowStore := repository.NewRowStore(dbConn)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager)
	sessions := gateway.New(tokenManager, userRepo, rowStore)

	composer := service.NewProposalComposer()
	registry := service.NewClientRegistry()
	dashboard := service.NewDashboardAggregator(time.Now)
	stats := service.NewStatsAggregator()

	// Вебсокеты.
	recovery := goroutine.NewRecoveryHandler(logger.RecoveryLogger{})
	hub := ws.NewHub(recovery)
	recovery.SafeGoWithContext(ctx, "ws.hub", hub.Run)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth:      httpHandlers.NewAuthHandler(authService, sessions, hub),
		Views:     httpHandlers.NewViewsHandler(sessions, dashboard, stats, registry),
		Clients:   httpHandlers.NewClientsHandler(registry, hub),
		Proposals: httpHandlers.NewProposalsHandler(composer, hub),
		WS:        httpHandlers.NewWSHandler(hub, sessions, httpHandlers.ViewLoaders(dashboard, stats, registry), cfg.AllowedOrigins),
		Health:    httpHandlers.NewHealthHandler(dbConn),
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, handlers, sessions, limiterStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Завершаем сервер при получении сигнала.
	recovery.SafeGo("http.shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	})

	logger.Log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.Errorf("main: ошибка закрытия базы: %v", err)
	}
}

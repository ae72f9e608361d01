package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/kanban-board/internal/api/http"
	"github.com/spec-kit/kanban-board/internal/api/http/handlers"
	"github.com/spec-kit/kanban-board/internal/auth"
	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/config"
	"github.com/spec-kit/kanban-board/internal/events"
	"github.com/spec-kit/kanban-board/internal/observability"
	"github.com/spec-kit/kanban-board/internal/repository"
	"github.com/spec-kit/kanban-board/internal/service"
	"github.com/spec-kit/kanban-board/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, backend, closeStore := cache.Open(ctx, cfg, logger)
	defer closeStore()
	logger.Info("board cache ready", zap.String("backend", backend))

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notifier.RegisterHandlers()

	boardService := service.NewBoardService(service.BoardDependencies{
		SnapshotRepo:   repository.NewSnapshotRepository(store, logger),
		PreferenceRepo: repository.NewPreferenceRepository(store),
		Fetcher:        source.NewClient(cfg.Source.URL, cfg.Source.Timeout()),
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	boardService.Start(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Hour)
	authMiddleware := auth.NewAuthMiddleware(tokens)
	if !authMiddleware.Enabled() {
		logger.Warn("AUTH_JWT_SECRET not set; refresh endpoint is open")
	}

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend, store, metrics),
		Board:          handlers.NewBoardHandler(boardService, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	boardService.Wait()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

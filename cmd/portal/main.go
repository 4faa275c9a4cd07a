package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/srw-platform/portal/internal/api/http"
	"github.com/srw-platform/portal/internal/api/http/handlers"
	"github.com/srw-platform/portal/internal/auth"
	"github.com/srw-platform/portal/internal/authstore"
	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/events"
	"github.com/srw-platform/portal/internal/observability"
	"github.com/srw-platform/portal/internal/registry"
	"github.com/srw-platform/portal/internal/service"
	"github.com/srw-platform/portal/internal/srwapi"
	"github.com/srw-platform/portal/internal/storage"
	"github.com/srw-platform/portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	backend, pinger, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	sessionRegistry := registry.New(func(sid string) *authstore.Store {
		return authstore.New(storage.WithPrefix(backend, "sess:"+sid+":"), logger)
	}, cfg.Session.IdleTTL())

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	sweeper := worker.NewSessionSweeper(sessionRegistry, dispatcher, metrics, logger, cfg.Session.SweepInterval())
	go sweeper.Run(ctx)

	apiClient := srwapi.New(cfg.API, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Use(auth.SessionMiddleware(cfg.Session, sessionRegistry))

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pinger),
		Auth:          handlers.NewAuthHandler(apiClient, dispatcher, metrics, logger, cfg.Routes),
		Profile:       handlers.NewProfileHandler(apiClient),
		Notifications: handlers.NewNotificationsHandler(apiClient),
		Admin:         handlers.NewAdminHandler(apiClient),
		Routes:        cfg.Routes,
		Metrics:       promRegistry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStorage selects the configured backend. Only redis contributes a
// readiness pinger.
func buildStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, handlers.Pinger, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client := storage.NewRedisClient(cfg.Redis, logger)
		adapter := storage.NewRedis(client, cfg.Storage.RedisTTL())
		return adapter, adapter, nil
	case "file":
		fileStore, err := storage.NewFile(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return fileStore, nil, nil
	default:
		return storage.NewMemory(), nil, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

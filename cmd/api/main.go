package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/article-service/internal/api/http"
	"github.com/spec-kit/article-service/internal/api/http/handlers"
	"github.com/spec-kit/article-service/internal/auth"
	"github.com/spec-kit/article-service/internal/config"
	"github.com/spec-kit/article-service/internal/events"
	"github.com/spec-kit/article-service/internal/observability"
	"github.com/spec-kit/article-service/internal/persistence"
	"github.com/spec-kit/article-service/internal/repository"
	"github.com/spec-kit/article-service/internal/service"
	"github.com/spec-kit/article-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo, articleRepo := buildRepositories(pg, logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(dispatcher, notificationService, logger, cfg.Notification.QueueSize)

	limiter := auth.NewLoginLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	userService := service.NewUserService(userRepo, authService, logger)
	articleService := service.NewArticleService(articleRepo, dispatcher, logger)

	if admin := cfg.Auth.BootstrapAdmin; admin.Email != "" {
		if err := userService.EnsureAdmin(ctx, admin.Email, admin.Name, admin.Password); err != nil {
			logger.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
		logger.Info("bootstrap admin ensured")
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService, authService),
		Articles:       handlers.NewArticlesHandler(articleService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	notifications.Stop()
	logger.Info("request metrics", zap.Any("snapshot", metrics.Snapshot()))
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) (repository.UserRepository, repository.ArticleRepository) {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("using in-memory repositories; data is lost on restart")
		return repository.NewMemoryUserRepository(), repository.NewMemoryArticleRepository()
	}
	return repository.NewUserRepository(pool), repository.NewArticleRepository(pool)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

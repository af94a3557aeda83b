package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-platform/internal/api/http"
	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/cache"
	"github.com/spec-kit/blog-platform/internal/config"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/kvstore"
	"github.com/spec-kit/blog-platform/internal/observability"
	"github.com/spec-kit/blog-platform/internal/persistence"
	"github.com/spec-kit/blog-platform/internal/repository"
	"github.com/spec-kit/blog-platform/internal/service"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	store := kvstore.DialRedis(cfg.Redis)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	}

	articleRepo := repository.NewArticleRepository(pg.PoolHandle())
	commentRepo := repository.NewCommentRepository(pg.PoolHandle())
	articleCache := cache.NewArticleCache(store, articleRepo, cfg.Cache.TTL(), logger)
	publisher := events.NewPublisher(store, logger)

	articleService := service.NewArticleService(articleRepo, articleCache)
	commentService := service.NewCommentService(commentRepo, articleCache, publisher, logger)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authMiddleware := auth.NewMiddleware(tokenMgr)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterContentRoutes(app, httptransport.ContentRouteConfig{
		Health: handlers.NewHealthHandler("content-service", cfg.App.Version, metrics, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    store,
		}),
		Articles:   handlers.NewArticlesHandler(articleService),
		Comments:   handlers.NewCommentsHandler(commentService),
		Middleware: authMiddleware,
		Ownership:  articleCache,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

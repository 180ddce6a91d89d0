package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/analytics"
	httptransport "github.com/ventaplus/commerce-service/internal/api/http"
	"github.com/ventaplus/commerce-service/internal/api/http/handlers"
	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/config"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/observability"
	"github.com/ventaplus/commerce-service/internal/persistence"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/internal/service"
	"github.com/ventaplus/commerce-service/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(redis.Client)

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	resolver := auth.NewResolver(codec, userRepo)
	authMiddleware := auth.NewMiddleware(resolver)

	periods := analytics.NewPeriodResolver(cfg.App.Location())
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Codec:             codec,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		UserRepo:    userRepo,
		StatsRepo:   statsRepo,
		Periods:     periods,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	userAdminService := service.NewUserAdminService(userRepo, orderRepo, cfg.Auth.BcryptCost)
	statsService := service.NewStatsService(statsRepo, userRepo, productRepo, orderRepo, periods)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.AccessTokenTTLMinutes),
		Client:         handlers.NewClientHandler(catalogService, orderService),
		Seller:         handlers.NewSellerHandler(orderService, catalogService),
		Admin:          handlers.NewAdminHandler(userAdminService, catalogService, orderService),
		AdminStats:     handlers.NewAdminStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
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

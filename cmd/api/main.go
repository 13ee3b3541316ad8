package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sakalaundry/laundry-api/internal/api/http"
	"github.com/sakalaundry/laundry-api/internal/api/http/handlers"
	"github.com/sakalaundry/laundry-api/internal/auth"
	"github.com/sakalaundry/laundry-api/internal/config"
	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/observability"
	"github.com/sakalaundry/laundry-api/internal/persistence"
	"github.com/sakalaundry/laundry-api/internal/realtime"
	"github.com/sakalaundry/laundry-api/internal/repository"
	"github.com/sakalaundry/laundry-api/internal/service"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo, redis.Client)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    orderRepo,
		SequenceRepo: sequenceRepo,
		Dispatcher:   dispatcher,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher)

	hub := realtime.NewHub(cfg.Realtime.SendBuffer, metrics, logger)
	bridge := realtime.NewBridge(hub, metrics, logger)
	bridge.RegisterHandlers(dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.AllowedOrigins, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Admin:          handlers.NewAdminHandler(orderService, authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Realtime:       realtime.NewHandler(hub, cfg.Realtime.Heartbeat(), logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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

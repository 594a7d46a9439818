package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mailer"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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

	// One probe at startup decides which column set the ticket queries
	// use; legacy databases keep working without per-query fallbacks.
	ticketCols, err := persistence.ProbeTicketSchema(ctx, pg.PoolHandle(), logger)
	if err != nil {
		logger.Fatal("failed to probe ticket schema", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	mail := mailer.New(cfg.SMTP)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool, ticketCols)
	changeRepo := repository.NewTicketChangeRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	refRepo := repository.NewReferenceRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	tokenRepo := repository.NewAuthTokenRepository(pool)

	workflow, err := service.ResolveWorkflowStatuses(ctx, refRepo, cfg.Ticket.ResolvedStatusFallbackID)
	if err != nil {
		logger.Fatal("failed to resolve workflow statuses", zap.Error(err))
	}
	logger.Info("workflow statuses resolved",
		zap.Int64("initial_status_id", workflow.InitialID),
		zap.Int64("terminal_status_id", workflow.TerminalID))

	labels := service.NewLabelResolver(refRepo, userRepo, redis, cfg.Redis.LabelCacheTTL, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokenRepo, tokenManager, mail, cfg.Auth, logger)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		ChangeRepo:  changeRepo,
		CommentRepo: commentRepo,
		UserRepo:    userRepo,
		RefRepo:     refRepo,
		Labels:      labels,
		Sender:      mail,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Workflow:    workflow,
	})
	referenceService := service.NewReferenceService(refRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, refRepo, userRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Webhook)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Admin:          handlers.NewAdminHandler(referenceService),
		Inventory:      handlers.NewInventoryHandler(inventoryService),
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

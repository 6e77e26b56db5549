package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-ticketing/internal/api/http"
	"github.com/spec-kit/crm-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/config"
	"github.com/spec-kit/crm-ticketing/internal/events"
	"github.com/spec-kit/crm-ticketing/internal/observability"
	"github.com/spec-kit/crm-ticketing/internal/persistence"
	"github.com/spec-kit/crm-ticketing/internal/ratelimit"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	"github.com/spec-kit/crm-ticketing/internal/service"
	"github.com/spec-kit/crm-ticketing/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(ticketRepo, userRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, ticketRepo, userRepo, dispatcher)
	kbService := service.NewKnowledgebaseService(articleRepo, categoryRepo)
	statsService := service.NewStatsService(statsRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	limiter := ratelimit.NewRedisLimiter(redis.Client, "login")
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService, limiter, cfg.RateLimit, logger),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Knowledgebase:  handlers.NewKnowledgebaseHandler(kbService),
		Statistics:     handlers.NewStatisticsHandler(statsService),
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

package appServer

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/config"
	"github.com/modbot/remindersvc/internal/command"
	repository "github.com/modbot/remindersvc/internal/database/postgres"
	rediscache "github.com/modbot/remindersvc/internal/database/redis"
	"github.com/modbot/remindersvc/internal/interaction"
	"github.com/modbot/remindersvc/internal/scheduler"
	"github.com/modbot/remindersvc/internal/service"
	"github.com/modbot/remindersvc/internal/timezone"
	"github.com/modbot/remindersvc/internal/transport"
	"github.com/modbot/remindersvc/internal/worker"
	"github.com/modbot/remindersvc/pkg/postgres"
	"github.com/modbot/remindersvc/pkg/rabbitmq"
	"github.com/modbot/remindersvc/pkg/ratelimit"
	"github.com/modbot/remindersvc/pkg/redis"
	"github.com/modbot/remindersvc/pkg/telegram"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize redis
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	cache := rediscache.NewCacheRepository(redisClient)

	// Initialize repositories
	reminderRepo := repository.NewReminderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize timezone registry and services
	zones := timezone.NewRegistry(settingsRepo, cache)
	reminderService := service.NewReminderService(reminderRepo, zones)
	guildService := service.NewGuildService(settingsRepo, cache)

	// Initialize chat transport
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		logrus.Fatal("Chat transport is not configured: telegram bot token required")
	}
	bot := telegram.NewBot(cfg.Telegram.BotToken)
	logrus.Info("Telegram transport initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize interaction queue and dispatcher
	queue, err := rabbitmq.NewRabbitMQ(rabbitmq.Config{
		URL:       cfg.Rabbit.URL,
		QueueName: cfg.Rabbit.QueueName,
	})
	if err != nil {
		logrus.Fatalf("Failed to initialize RabbitMQ: %v", err)
	}
	defer queue.Close()

	dispatcher := interaction.NewDispatcher(reminderService, zones, bot, cache)
	if err := queue.Consume(ctx, dispatcher.HandleMessage); err != nil {
		logrus.Fatalf("Failed to start interaction consumer: %v", err)
	}
	logrus.Info("Interaction dispatcher started")

	// Initialize and start the delivery scheduler
	deliveryScheduler := scheduler.NewScheduler(reminderRepo, bot, guildService, cache, scheduler.Config{
		TickInterval:   cfg.Scheduler.TickInterval,
		BatchSize:      cfg.Scheduler.BatchSize,
		StopTimeout:    cfg.Scheduler.StopTimeout,
		MaxFailedTicks: cfg.Scheduler.MaxFailedTick,
	})
	go deliveryScheduler.Start(ctx)
	logrus.Info("Delivery scheduler started")

	// Initialize cleanup worker
	cleanupWorker := worker.NewReminderCleanupWorker(reminderService, cfg.Worker.CleanupInterval, cfg.Worker.RetentionDays)
	go cleanupWorker.Start(ctx)
	logrus.Info("Cleanup worker started")

	// Initialize command registry and handlers
	limiter := ratelimit.NewLimiter(redisClient)
	registry := command.NewRegistry(reminderService, guildService, zones, bot, cache, limiter, cfg.RateLimit)

	commandHandler := transport.NewCommandHandler(registry)
	interactionHandler := transport.NewInteractionHandler(queue)
	reminderHandler := transport.NewReminderHandler(reminderService)
	guildHandler := transport.NewGuildHandler(guildService)

	checks := map[string]transport.HealthChecker{
		"postgres": db.Ping,
		"redis": func() error {
			return redisClient.Ping(context.Background()).Err()
		},
		"rabbitmq": queue.HealthCheck,
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(commandHandler, interactionHandler, reminderHandler, guildHandler, checks)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	deliveryScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

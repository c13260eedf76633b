package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sushihentaime/blogfeed/internal/blogservice"
	"github.com/sushihentaime/blogfeed/internal/common"
	"github.com/sushihentaime/blogfeed/internal/feedservice"
	"github.com/sushihentaime/blogfeed/internal/mailservice"
	"github.com/sushihentaime/blogfeed/internal/notifyservice"
	"github.com/sushihentaime/blogfeed/internal/readservice"
	"github.com/sushihentaime/blogfeed/internal/subscriptionservice"
	"github.com/sushihentaime/blogfeed/internal/userservice"
)

type application struct {
	config *Config
	logger *slog.Logger
	db     *sql.DB

	userService         *userservice.UserService
	blogService         *blogservice.BlogService
	subscriptionService *subscriptionservice.SubscriptionService
	readService         *readservice.ReadService
	feedService         *feedservice.FeedService

	limiter  *ipRateLimiter
	metrics  *httpMetrics
	registry *prometheus.Registry
}

// newApplication wires the services shared by the HTTP layer and the workers.
func newApplication(cfg *Config, logger *slog.Logger, db *sql.DB, registry *prometheus.Registry) *application {
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	users := userservice.NewUserService(db, cache)
	blogs := blogservice.NewBlogService(db, cache)
	reads := readservice.NewReadService(db)
	subscriptions := subscriptionservice.NewSubscriptionService(db, reads)

	app := &application{
		config:              cfg,
		logger:              logger,
		db:                  db,
		userService:         users,
		blogService:         blogs,
		subscriptionService: subscriptions,
		readService:         reads,
		feedService:         feedservice.NewFeedService(subscriptions, blogs, reads),
		registry:            registry,
	}

	if registry != nil {
		app.metrics = newHTTPMetrics(registry)
	}

	if cfg.RateLimitEnabled {
		app.limiter = newIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	return app
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dsn := common.PostgresDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	if cfg.MigrationsSource != "" {
		m, err := common.MigrateUp(cfg.MigrationsSource, dsn)
		if err != nil {
			logger.Error("failed to migrate the database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		m.Close()
		logger.Info("database migrations applied", slog.String("source", cfg.MigrationsSource))
	}

	db, err := common.NewDB(dsn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupPostExchange(broker)
	if err != nil {
		logger.Error("failed to setup the post exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newApplication(cfg, logger, db, registry)

	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	relay := notifyservice.NewRelay(db, app.subscriptionService, notifyservice.NewBrokerDispatcher(broker),
		notifyservice.NewRelayMetrics(registry), logger, notifyservice.RelayConfig{
			Interval:    cfg.RelayInterval,
			BatchSize:   cfg.RelayBatchSize,
			MaxAttempts: cfg.RelayMaxAttempts,
			RetryDelay:  cfg.RelayRetryDelay,
			Lease:       cfg.RelayLease,
		})
	go relay.Run(workers)

	mailService := mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger)
	defer mailService.Close()

	if err := mailService.SendNewPostEmails(); err != nil {
		logger.Error("failed to start the mail consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if app.limiter != nil {
		go app.limiter.prune(workers, time.Minute, 3*time.Minute)
	}

	err = app.serve(cancelWorkers)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

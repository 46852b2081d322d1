// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"

	authUseCase "github.com/souqdz/marketplace/internal/auth/usecase"
	"github.com/souqdz/marketplace/internal/cache"
	"github.com/souqdz/marketplace/internal/clock"
	"github.com/souqdz/marketplace/internal/config"
	"github.com/souqdz/marketplace/internal/database"
	"github.com/souqdz/marketplace/internal/http"
	"github.com/souqdz/marketplace/internal/metrics"
	notificationsUseCase "github.com/souqdz/marketplace/internal/notifications/usecase"
	ordersUseCase "github.com/souqdz/marketplace/internal/orders/usecase"
	paymentsUseCase "github.com/souqdz/marketplace/internal/payments/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	clock           clock.Clock
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	statusCache     cache.Cache
	jobEventsTopic  *pubsub.Topic

	// Managers
	txManager database.TxManager

	// Repositories
	orderRepo ordersUseCase.OrderRepository
	payRepo   paymentsUseCase.PaymentRepository
	jobRepo   notificationsUseCase.JobRepository

	// Use Cases
	orderUseCase   ordersUseCase.OrderUseCase
	paymentUseCase paymentsUseCase.PaymentUseCase
	queueUseCase   *notificationsUseCase.NotificationQueueUseCase
	otpUseCase     authUseCase.OTPUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	worker        *notificationsUseCase.Worker
	sweeper       *paymentsUseCase.Sweeper

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	clockInit           sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	statusCacheInit     sync.Once
	jobEventsTopicInit  sync.Once
	txManagerInit       sync.Once
	orderRepoInit       sync.Once
	payRepoInit         sync.Once
	jobRepoInit         sync.Once
	orderUseCaseInit    sync.Once
	paymentUseCaseInit  sync.Once
	queueUseCaseInit    sync.Once
	otpUseCaseInit      sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	workerInit          sync.Once
	sweeperInit         sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Clock returns the system clock used by all use cases.
func (c *Container) Clock() clock.Clock {
	c.clockInit.Do(func() {
		c.clock = clock.NewSystem()
	})
	return c.clock
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// StatusCache returns the payment-status cache. A no-op cache is returned
// when caching is disabled.
func (c *Container) StatusCache() cache.Cache {
	c.statusCacheInit.Do(func() {
		if c.config.CacheEnabled {
			c.statusCache = cache.NewRedisCache(c.config.RedisAddr)
			return
		}
		c.statusCache = cache.NewNoOpCache()
	})
	return c.statusCache
}

// JobEventsTopic returns the pubsub topic job lifecycle events are published to.
func (c *Container) JobEventsTopic(ctx context.Context) (*pubsub.Topic, error) {
	var err error
	c.jobEventsTopicInit.Do(func() {
		c.jobEventsTopic, err = pubsub.OpenTopic(ctx, c.config.JobEventsTopicURL)
		if err != nil {
			c.initErrors["jobEventsTopic"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["jobEventsTopic"]; exists {
		return nil, storedErr
	}
	return c.jobEventsTopic, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}

		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown the job events topic if initialized
	if c.jobEventsTopic != nil {
		if err := c.jobEventsTopic.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("job events topic shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	orderHandler, err := c.initOrderHandler(ctx)
	if err != nil {
		return nil, err
	}

	paymentHandler, err := c.initPaymentHandler(ctx)
	if err != nil {
		return nil, err
	}

	corsMiddleware := http.CreateCORSMiddleware(
		c.config.CORSEnabled,
		c.config.CORSAllowOrigins,
		logger,
	)

	server := http.NewServer(
		db,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
		orderHandler,
		paymentHandler,
		corsMiddleware,
	)

	return server, nil
}

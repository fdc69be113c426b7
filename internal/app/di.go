// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/secretsmanager/internal/config"
	"github.com/allisson/secretsmanager/internal/cryptoutil"
	"github.com/allisson/secretsmanager/internal/database"
	ambientHTTP "github.com/allisson/secretsmanager/internal/http"
	"github.com/allisson/secretsmanager/internal/metrics"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
	secretsHTTP "github.com/allisson/secretsmanager/internal/secrets/http"
	"github.com/allisson/secretsmanager/internal/secrets/usecase"
	"github.com/allisson/secretsmanager/internal/sigv4"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created on first access (lazy initialization).
type Container struct {
	config *config.Config

	logger *slog.Logger
	db     *database.DB

	txManager database.TxManager
	secretRepo repository.SecretRepository

	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	secretUseCase usecase.SecretUseCase

	httpServer        *ambientHTTP.Server
	metricsHTTPServer *ambientHTTP.MetricsServer

	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	secretRepoInit        sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	secretUseCaseInit     sync.Once
	httpServerInit        sync.Once
	metricsHTTPServerInit sync.Once
	initErrors            map[string]error
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
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the encrypted SQLite database handle, opening it on first access.
func (c *Container) DB() (*database.DB, error) {
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

// SecretRepository returns the secret repository instance.
func (c *Container) SecretRepository() (repository.SecretRepository, error) {
	var err error
	c.secretRepoInit.Do(func() {
		c.secretRepo, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

// MetricsProvider returns the Prometheus metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider("secretsmanager")
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

// BusinessMetrics returns the business metrics recorder, falling back to a
// no-op implementation when metrics are disabled.
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

// SecretUseCase returns the secret use case, wrapped in the metrics decorator.
func (c *Container) SecretUseCase() (usecase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// HTTPServer returns the signed secrets API server.
func (c *Container) HTTPServer() (*ambientHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
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

// MetricsHTTPServer returns the /metrics listener.
func (c *Container) MetricsHTTPServer() (*ambientHTTP.MetricsServer, error) {
	var err error
	c.metricsHTTPServerInit.Do(func() {
		c.metricsHTTPServer, err = c.initMetricsHTTPServer()
		if err != nil {
			c.initErrors["metricsHTTPServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsHTTPServer"]; exists {
		return nil, storedErr
	}
	return c.metricsHTTPServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsHTTPServer != nil {
		if err := c.metricsHTTPServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

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

func (c *Container) initDB() (*database.DB, error) {
	db, err := database.Open(c.config.DatabasePath, c.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initSecretRepository() (repository.SecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}
	return repository.NewSQLiteSecretRepository(db), nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	bm, err := metrics.NewBusinessMetrics(provider, "secretsmanager")
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return bm, nil
}

// paginationKey derives the HMAC key signing opaque pagination tokens from
// the configured encryption passphrase, so tokens are stable across restarts
// without a separate secret to manage.
func (c *Container) paginationKey() []byte {
	return cryptoutil.HMACSHA256([]byte(c.config.EncryptionKey), []byte("pagination-token"))
}

func (c *Container) initSecretUseCase() (usecase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}

	secretRepo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
	}

	base := usecase.NewSecretUseCase(txManager, secretRepo, c.config.ARNRegion, c.config.ARNAccount, c.paginationKey())
	return usecase.NewSecretUseCaseWithMetrics(base, businessMetrics), nil
}

func (c *Container) initHTTPServer() (*ambientHTTP.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	secretUseCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for http server: %w", err)
	}

	server := ambientHTTP.NewServer(
		db.SQL(),
		c.config.ServerAddress,
		c.config.UseHTTPS,
		c.config.HTTPSCertificatePath,
		c.config.HTTPSPrivateKeyPath,
		logger,
	)

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		server.Router().Use(metrics.HTTPMetricsMiddleware(provider, "secretsmanager"))
	}

	creds := sigv4.Credentials{
		AccessKeyID:     c.config.AccessKeyID,
		AccessKeySecret: c.config.AccessKeySecret,
	}
	secretsHTTP.Mount(server.Router(), secretUseCase, creds, c.config.ClockSkew, logger)

	return server, nil
}

func (c *Container) initMetricsHTTPServer() (*ambientHTTP.MetricsServer, error) {
	logger := c.Logger()

	var provider *metrics.Provider
	if c.config.MetricsEnabled {
		var err error
		provider, err = c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
	}

	return ambientHTTP.NewMetricsServer(fmt.Sprintf(":%d", c.config.MetricsPort), logger, provider), nil
}

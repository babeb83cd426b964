package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/finance_tracker/internal/adapters/events"
	"github.com/SscSPs/finance_tracker/internal/adapters/llm"
	"github.com/SscSPs/finance_tracker/internal/core/ports"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/handlers"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Finance Tracker API
// @version 1.0
// @description Transactions, CSV import and a chat relay for the finance tracker.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	if cfg.EnableDBCheck {
		txns, err := repos.TransactionRepo.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}
		logger.Info("Database check passed", slog.Int("transaction_count", len(txns)))
	}

	publisher := newEventPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	gateways := services.Gateways{Events: publisher}
	if cfg.ChatEnabled() {
		gateways.LanguageModel = llm.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, llm.WithModel(cfg.OpenAIModel))
	}
	container := services.NewServiceContainer(repos, gateways)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openRepositories selects the storage backend named by DATA_BACKEND.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		logger.Info("Running database migrations...")
		if err := database.MigratePostgres(cfg.DatabaseURL); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Initialized sqlite backend", slog.String("path", cfg.SQLiteDBPath))
		return sqlite.NewRepositoryProvider(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing sqlite database", slog.String("error", err.Error()))
			}
		}, nil

	default:
		logger.Info("Initialized memory backend")
		return memory.NewRepositoryProvider(), func() {}, nil
	}
}

func newEventPublisher(cfg *config.Config, logger *slog.Logger) ports.EventPublisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// events are best effort; the API keeps serving without them
		logger.Error("Failed to connect to AMQP, events disabled", slog.String("error", err.Error()))
		return events.NoopPublisher{}
	}
	logger.Info("Publishing transaction events", slog.String("exchange", cfg.AMQPExchange))
	return publisher
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.APIKeyHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

// The apiserver command runs the MolCanon HTTP API: canonicalization,
// stereo validation, and the molecule registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/MolCanon/internal/application/registry"
	"github.com/turtacn/MolCanon/internal/config"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/redis"
	"github.com/turtacn/MolCanon/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MolCanon/internal/interfaces/http"
	"github.com/turtacn/MolCanon/internal/interfaces/http/handlers"
	"github.com/turtacn/MolCanon/internal/interfaces/http/middleware"
)

// version is injected via ldflags.
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	logger.Info("starting molcanon api server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("canonicalizer_mode", cfg.Canonicalizer.Mode),
	)

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer conn.Close()

	if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	// ── Redis cache ──────────────────────────────────────────────────────────
	redisClient, err := redis.NewClient(&redis.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewRedisCache(redisClient, logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Registry.CacheTTL),
	)

	// ── Kafka producer ───────────────────────────────────────────────────────
	var events registry.EventPublisher
	var producer *kafka.Producer
	if cfg.Registry.PublishEvents {
		producer, err = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			MaxRetries: cfg.Kafka.ProducerRetries,
			BatchSize:  cfg.Kafka.BatchSize,
		}, logger)
		if err != nil {
			return fmt.Errorf("kafka producer failed: %w", err)
		}
		defer producer.Close()
		events = kafka.NewRegistryPublisher(producer, cfg.Registry.EventSource)
	}

	// ── Metrics ──────────────────────────────────────────────────────────────
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "molcanon",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector failed: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	// ── Application service ──────────────────────────────────────────────────
	repo := repositories.NewRegistryRepository(conn.DB(), logger)
	service := registry.NewService(repo, cache, events, logger, metrics)

	// ── HTTP interface ───────────────────────────────────────────────────────
	healthCheckers := []handlers.HealthChecker{
		handlers.HealthCheckerFunc{
			CheckerName: "postgres",
			CheckFunc:   func(ctx context.Context) error { return conn.HealthCheck(ctx) },
		},
		handlers.HealthCheckerFunc{
			CheckerName: "redis",
			CheckFunc:   redisClient.Ping,
		},
	}

	limiter := middleware.NewTokenBucketLimiter(0, 0, 0)
	defer limiter.Stop()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:           cfg.Server.Mode,
		Registry:       handlers.NewRegistryHandler(service, logger),
		Health:         handlers.NewHealthHandler(version, healthCheckers...),
		Logger:         logger,
		Metrics:        metrics,
		MetricsHandler: collector.Handler(),
		RateLimiter:    limiter,
		RateLimitConf:  middleware.DefaultRateLimitConfig(),
		CORS:           middleware.DefaultCORSConfig(),
		Logging:        middleware.DefaultLoggingConfig(),
	})

	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	<-errCh

	logger.Info("server stopped")
	return nil
}

// loadConfig reads the config file, falling back to environment variables
// when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// The worker command consumes registry events from Kafka and keeps the
// redis entry cache in sync: new registrations are warmed into the cache,
// deletions are evicted.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/MolCanon/internal/application/registry"
	"github.com/turtacn/MolCanon/internal/config"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/redis"
	"github.com/turtacn/MolCanon/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
)

const (
	defaultConfigPath = "configs/config.yaml"
	handlerTimeout    = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	healthAddr := flag.String("health-addr", ":8081", "listen address for the health probe")
	flag.Parse()

	if err := run(*configPath, *healthAddr); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, healthAddr string) error {
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
	logger = logger.Named("worker")

	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.DBName,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
	}, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer conn.Close()

	redisClient, err := redis.NewClient(&redis.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewRedisCache(redisClient, logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Registry.CacheTTL),
	)
	repo := repositories.NewRegistryRepository(conn.DB(), logger)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           cfg.Kafka.Brokers,
		GroupID:           cfg.Kafka.GroupID,
		Topics:            []string{kafka.TopicMoleculeRegistered, kafka.TopicMoleculeDeleted},
		AutoOffsetReset:   cfg.Kafka.AutoOffsetReset,
		HeartbeatInterval: cfg.Worker.HeartbeatInterval,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    cfg.Worker.RetryBackoff,
			DeadLetterTopic: kafka.TopicDeadLetterRegistry,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer failed: %w", err)
	}
	defer consumer.Close()

	h := &eventHandler{repo: repo, cache: cache, logger: logger}
	if err := consumer.Subscribe(kafka.TopicMoleculeRegistered, h.handleRegistered); err != nil {
		return err
	}
	if err := consumer.Subscribe(kafka.TopicMoleculeDeleted, h.handleDeleted); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("consumer start failed: %w", err)
	}

	healthSrv := startHealthServer(healthAddr, conn, logger)

	logger.Info("worker running",
		logging.String("group_id", cfg.Kafka.GroupID),
		logging.Int("concurrency", cfg.Worker.Concurrency),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown failed", logging.Err(err))
	}

	return nil
}

// eventHandler reacts to registry events.
type eventHandler struct {
	repo   registry.Repository
	cache  registry.EntryCache
	logger logging.Logger
}

// handleRegistered warms the cache for a freshly registered molecule so the
// first lookup after registration never hits the database.
func (h *eventHandler) handleRegistered(ctx context.Context, msg *kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	var payload kafka.MoleculeRegisteredPayload
	if err := env.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed registered payload: %w", err)
	}

	entry, err := h.repo.FindByIDCode(ctx, payload.IDCode)
	if err != nil {
		return err
	}
	if err := h.cache.Set(ctx, registry.EntryCacheKey(entry.IDCode), entry, 0); err != nil {
		return err
	}

	h.logger.Info("cache warmed",
		logging.String("idcode", payload.IDCode),
		logging.String("event_id", env.EventID),
	)
	return nil
}

// handleDeleted evicts a deleted molecule from the cache.
func (h *eventHandler) handleDeleted(ctx context.Context, msg *kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	var payload kafka.MoleculeDeletedPayload
	if err := env.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed deleted payload: %w", err)
	}

	if err := h.cache.Delete(ctx, registry.EntryCacheKey(payload.IDCode)); err != nil {
		return err
	}

	h.logger.Info("cache entry evicted", logging.String("idcode", payload.IDCode))
	return nil
}

// startHealthServer exposes /healthz for liveness and /readyz backed by the
// database connection.
func startHealthServer(addr string, conn *postgres.Connection, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := conn.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	return srv
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

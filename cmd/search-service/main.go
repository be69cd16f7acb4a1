// cmd/search-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"compare-engine/internal/common/config"
	"compare-engine/internal/common/database"
	"compare-engine/internal/common/logger"
	"compare-engine/internal/common/observability"
	"compare-engine/internal/engine"
	"compare-engine/internal/engine/compare"
	"compare-engine/internal/engine/normalize"
	"compare-engine/internal/engine/search"
	"compare-engine/internal/store"
	"compare-engine/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting search service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Category registry ---
	reg := registry.Default()
	if cfg.Registry.Path != "" {
		reg, err = registry.Load(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("registry document load failed", zap.Error(err))
		}
	}
	zapLog.Info("Category registry ready", zap.Int("categories", reg.Len()))

	// --- Product store ---
	var productStore store.ProductStore
	switch cfg.Search.Backend {
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		productStore = store.NewElasticsearch(esClient)
		zapLog.Info("Elasticsearch connected successfully")

	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		productStore = store.NewPostgres(pg)
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Optional search response cache ---
	var cache *search.Cache
	if cfg.Search.CacheTTL > 0 {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			redis = database.NewRedis(cfg.Database.Redis)
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			// The cache is an optimization; run without it.
			zapLog.Warn("redis unavailable, search cache disabled", zap.Error(err))
		} else {
			defer redis.Close()
			cache = search.NewCache(redis, time.Duration(cfg.Search.CacheTTL)*time.Second, log)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Engine wiring ---
	aggregator := search.New(reg, productStore, normalize.New(log), cache, search.Options{
		PerCategoryLimit: cfg.Search.PerCategoryLimit,
		QueryTimeout:     time.Duration(cfg.Search.QueryTimeout) * time.Millisecond,
	}, log)

	eng := engine.New(reg, aggregator, compare.NewCardScorer())

	// --- HTTP server ---
	mux := http.NewServeMux()
	api := newAPI(eng, obs, log)
	mux.HandleFunc("/search", api.handleSearch)
	mux.HandleFunc("/filter-sort", api.handleFilterSort)
	mux.HandleFunc("/compare", api.handleCompare)
	mux.HandleFunc("/healthz", api.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Search service stopped")
}

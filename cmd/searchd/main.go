// Command searchd builds the in-memory keyword index from the configured
// corpus and serves the two-keyword search API.
//
// The corpus is indexed once at startup; a failed build aborts the process so
// no partial index is ever served. After the build the index is read-only and
// queries run against it concurrently.
//
// Usage:
//
//	go run ./cmd/searchd [-config configs/development.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akranga01/Little-Search-Engine/internal/analytics"
	"github.com/akranga01/Little-Search-Engine/internal/corpus"
	"github.com/akranga01/Little-Search-Engine/internal/indexer"
	"github.com/akranga01/Little-Search-Engine/internal/ratelimit"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/cache"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/executor"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/handler"
	"github.com/akranga01/Little-Search-Engine/pkg/config"
	"github.com/akranga01/Little-Search-Engine/pkg/health"
	"github.com/akranga01/Little-Search-Engine/pkg/kafka"
	"github.com/akranga01/Little-Search-Engine/pkg/logger"
	"github.com/akranga01/Little-Search-Engine/pkg/metrics"
	"github.com/akranga01/Little-Search-Engine/pkg/middleware"
	pkgredis "github.com/akranga01/Little-Search-Engine/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	source := corpus.NewDir(cfg.Corpus.DocumentRoot, cfg.Corpus.ManifestPath, cfg.Corpus.NoiseWordPath)
	engine := indexer.NewEngine()

	buildStart := time.Now()
	if err := engine.Build(context.Background(), source); err != nil {
		slog.Error("index build failed, no usable index", "error", err)
		os.Exit(1)
	}
	if m != nil {
		stats, _ := engine.Stats()
		m.DocsIndexedTotal.Add(float64(stats.Documents))
		m.KeywordsIndexed.Set(float64(stats.Keywords))
		m.IndexBuildSeconds.Set(time.Since(buildStart).Seconds())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("search cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 100, 5*time.Second)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.QueryEvents)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if !engine.Ready() {
			return health.ComponentHealth{Status: health.StatusDown, Message: "index not built"}
		}
		stats, _ := engine.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d keywords", stats.Documents, stats.Keywords),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	exec := executor.New(engine, cfg.Search.MaxResults)
	h := handler.New(exec, engine, queryCache, collector, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit.Window)
		chain = middleware.RateLimit(limiter, cfg.RateLimit.RequestsPerWindow)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

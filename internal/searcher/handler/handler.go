package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/akranga01/Little-Search-Engine/internal/analytics"
	"github.com/akranga01/Little-Search-Engine/internal/indexer"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/cache"
	"github.com/akranga01/Little-Search-Engine/internal/searcher/executor"
	"github.com/akranga01/Little-Search-Engine/pkg/errors"
	"github.com/akranga01/Little-Search-Engine/pkg/logger"
	"github.com/akranga01/Little-Search-Engine/pkg/metrics"
	"github.com/akranga01/Little-Search-Engine/pkg/middleware"
	"github.com/akranga01/Little-Search-Engine/pkg/tracing"
)

// SearchExecutor runs one two-keyword query.
type SearchExecutor interface {
	TopSearch(ctx context.Context, first, second string) (*executor.Result, error)
}

// Handler serves the search API.
type Handler struct {
	executor  SearchExecutor
	engine    *indexer.Engine
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil, in which case
// the corresponding concern is skipped.
func New(exec SearchExecutor, engine *indexer.Engine, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		executor:  exec,
		engine:    engine,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?first=<kw>&second=<kw>.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "search", middleware.GetRequestID(ctx))
	defer span.End()

	first := r.URL.Query().Get("first")
	second := r.URL.Query().Get("second")
	if first == "" || second == "" {
		h.countQuery("invalid")
		h.writeError(w, http.StatusBadRequest, "query parameters 'first' and 'second' are required")
		return
	}
	span.SetAttr("first", first)
	span.SetAttr("second", second)

	var result *executor.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		_, cacheSpan := tracing.StartChildSpan(ctx, "cache-lookup")
		result, cacheHit, err = h.cache.GetOrCompute(ctx, first, second, func() (*executor.Result, error) {
			execCtx, execSpan := tracing.StartChildSpan(ctx, "execute")
			defer execSpan.End()
			return h.executor.TopSearch(execCtx, first, second)
		})
		cacheSpan.End()
	} else {
		result, err = h.executor.TopSearch(ctx, first, second)
	}

	latency := time.Since(start)

	if err != nil {
		status := errors.HTTPStatusCode(err)
		switch {
		case stderrors.Is(err, errors.ErrKeywordNotFound):
			h.countQuery("not_found")
			h.track(analytics.EventKeywordMiss, first, second, nil, latency, cacheHit, ctx)
		case stderrors.Is(err, errors.ErrInvalidInput):
			h.countQuery("invalid")
			h.track(analytics.EventInvalidQuery, first, second, nil, latency, cacheHit, ctx)
		default:
			h.countQuery("error")
			log.Error("search execution failed", "first", first, "second", second, "error", err)
		}
		h.writeError(w, status, err.Error())
		return
	}

	log.Info("search completed",
		"first", result.First,
		"second", result.Second,
		"matched", result.Matched,
		"returned", len(result.Documents),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	h.countQuery("ok")
	if h.metrics != nil {
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		h.metrics.SearchResultsCount.Observe(float64(len(result.Documents)))
	}
	h.track(analytics.EventQuery, first, second, result, latency, cacheHit, ctx)

	h.writeJSON(w, http.StatusOK, result)
}

// IndexStats handles GET /api/v1/index/stats.
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats()
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "index is not built")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) countQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) track(eventType analytics.EventType, first, second string, result *executor.Result, latency time.Duration, cacheHit bool, ctx context.Context) {
	if h.collector == nil {
		return
	}
	event := analytics.QueryEvent{
		Type:      eventType,
		First:     first,
		Second:    second,
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(ctx),
	}
	if result != nil {
		event.First = result.First
		event.Second = result.Second
		event.Matched = result.Matched
		event.Returned = len(result.Documents)
	}
	h.collector.Track(event)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akranga01/Little-Search-Engine/pkg/kafka"
)

// AggregatedStats is the point-in-time view the analytics API serves.
type AggregatedStats struct {
	TotalQueries     int64        `json:"total_queries"`
	CacheHits        int64        `json:"cache_hits"`
	CacheMisses      int64        `json:"cache_misses"`
	KeywordMisses    int64        `json:"keyword_misses"`
	InvalidQueries   int64        `json:"invalid_queries"`
	AvgLatencyMs     float64      `json:"avg_latency_ms"`
	P50LatencyMs     int64        `json:"p50_latency_ms"`
	P95LatencyMs     int64        `json:"p95_latency_ms"`
	P99LatencyMs     int64        `json:"p99_latency_ms"`
	TopKeywordPairs  []PairCount  `json:"top_keyword_pairs"`
	MissedKeywords   []PairCount  `json:"missed_keywords"`
	QueriesPerMinute float64      `json:"queries_per_minute"`
}

// PairCount counts how often a keyword pair (or single keyword) was queried.
type PairCount struct {
	Pair  string `json:"pair"`
	Count int64  `json:"count"`
}

// Aggregator folds the query-event stream into in-memory statistics.
type Aggregator struct {
	mu             sync.RWMutex
	totalQueries   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	keywordMisses  atomic.Int64
	invalidQueries atomic.Int64
	latencies      []int64
	pairCounts     map[string]int64
	missedKeywords map[string]int64
	startTime      time.Time

	logger *slog.Logger
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:      make([]int64, 0, 10000),
		pairCounts:     make(map[string]int64),
		missedKeywords: make(map[string]int64),
		startTime:      time.Now(),
		logger:         slog.Default().With("component", "analytics-aggregator"),
	}
}

// Start consumes events from the given consumer into the aggregator. It
// blocks until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context, consumer *kafka.Consumer) error {
	a.logger.Info("analytics aggregator starting")
	return consumer.Start(ctx)
}

// HandleEvent returns a Kafka MessageHandler that records each decoded
// QueryEvent in the aggregator. Undecodable events are logged and skipped.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[QueryEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode query event", "error", err)
			return nil
		}
		agg.Record(event)
		return nil
	}
}

// Record folds one event into the running statistics.
func (a *Aggregator) Record(event QueryEvent) {
	a.totalQueries.Add(1)

	switch event.Type {
	case EventKeywordMiss:
		a.keywordMisses.Add(1)
	case EventInvalidQuery:
		a.invalidQueries.Add(1)
	}

	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}

	pair := fmt.Sprintf("%s|%s", event.First, event.Second)
	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.pairCounts[pair]++
	if event.Type == EventKeywordMiss {
		a.missedKeywords[pair]++
	}
	a.mu.Unlock()
}

// Stats computes the current aggregate view.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:   a.totalQueries.Load(),
		CacheHits:      a.cacheHits.Load(),
		CacheMisses:    a.cacheMisses.Load(),
		KeywordMisses:  a.keywordMisses.Load(),
		InvalidQueries: a.invalidQueries.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopKeywordPairs = topN(a.pairCounts, 10)
	stats.MissedKeywords = topN(a.missedKeywords, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []PairCount {
	result := make([]PairCount, 0, len(counts))
	for pair, count := range counts {
		result = append(result, PairCount{Pair: pair, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Pair < result[j].Pair
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

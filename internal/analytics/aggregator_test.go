package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestAggregatorRecordAndStats(t *testing.T) {
	agg := NewAggregator()

	for i := 0; i < 8; i++ {
		agg.Record(QueryEvent{
			Type:      EventQuery,
			First:     "river",
			Second:    "valley",
			LatencyMs: int64(10 * (i + 1)),
			CacheHit:  i%2 == 0,
		})
	}
	agg.Record(QueryEvent{Type: EventKeywordMiss, First: "river", Second: "unicorn", LatencyMs: 5})
	agg.Record(QueryEvent{Type: EventInvalidQuery, First: "-bad", Second: "river", LatencyMs: 1})

	stats := agg.Stats()

	if stats.TotalQueries != 10 {
		t.Errorf("TotalQueries = %d, want 10", stats.TotalQueries)
	}
	if stats.CacheHits != 4 {
		t.Errorf("CacheHits = %d, want 4", stats.CacheHits)
	}
	if stats.CacheMisses != 6 {
		t.Errorf("CacheMisses = %d, want 6", stats.CacheMisses)
	}
	if stats.KeywordMisses != 1 {
		t.Errorf("KeywordMisses = %d, want 1", stats.KeywordMisses)
	}
	if stats.InvalidQueries != 1 {
		t.Errorf("InvalidQueries = %d, want 1", stats.InvalidQueries)
	}
	if stats.AvgLatencyMs <= 0 {
		t.Errorf("AvgLatencyMs = %f, want > 0", stats.AvgLatencyMs)
	}
	if stats.P50LatencyMs > stats.P95LatencyMs || stats.P95LatencyMs > stats.P99LatencyMs {
		t.Errorf("percentiles not monotonic: p50=%d p95=%d p99=%d",
			stats.P50LatencyMs, stats.P95LatencyMs, stats.P99LatencyMs)
	}

	if len(stats.TopKeywordPairs) == 0 || stats.TopKeywordPairs[0].Pair != "river|valley" {
		t.Errorf("TopKeywordPairs = %v, want river|valley first", stats.TopKeywordPairs)
	}
	if stats.TopKeywordPairs[0].Count != 8 {
		t.Errorf("top pair count = %d, want 8", stats.TopKeywordPairs[0].Count)
	}
	if len(stats.MissedKeywords) != 1 || stats.MissedKeywords[0].Pair != "river|unicorn" {
		t.Errorf("MissedKeywords = %v, want river|unicorn only", stats.MissedKeywords)
	}
	if stats.QueriesPerMinute <= 0 {
		t.Errorf("QueriesPerMinute = %f, want > 0", stats.QueriesPerMinute)
	}
}

func TestAggregatorEmptyStats(t *testing.T) {
	stats := NewAggregator().Stats()

	if stats.TotalQueries != 0 {
		t.Errorf("TotalQueries = %d, want 0", stats.TotalQueries)
	}
	if stats.P99LatencyMs != 0 || stats.AvgLatencyMs != 0 {
		t.Errorf("latencies nonzero on empty aggregator: %+v", stats)
	}
	if len(stats.TopKeywordPairs) != 0 {
		t.Errorf("TopKeywordPairs = %v, want empty", stats.TopKeywordPairs)
	}
}

func TestTopNOrdersByCountThenPair(t *testing.T) {
	counts := map[string]int64{
		"b|x": 3,
		"a|x": 3,
		"c|x": 7,
		"d|x": 1,
	}
	got := topN(counts, 3)
	want := []PairCount{
		{Pair: "c|x", Count: 7},
		{Pair: "a|x", Count: 3},
		{Pair: "b|x", Count: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("topN returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topN[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPercentile(t *testing.T) {
	sorted := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 50); got != 6 {
		t.Errorf("p50 = %d, want 6", got)
	}
	if got := percentile(sorted, 99); got != 10 {
		t.Errorf("p99 = %d, want 10", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("p50 of empty = %d, want 0", got)
	}
}

func TestHandleEventDecodesAndRecords(t *testing.T) {
	agg := NewAggregator()
	handler := HandleEvent(agg)

	event := QueryEvent{
		Type:      EventQuery,
		First:     "river",
		Second:    "valley",
		Matched:   3,
		Returned:  3,
		LatencyMs: 12,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}

	if err := handler(context.Background(), []byte("key"), payload); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := agg.Stats().TotalQueries; got != 1 {
		t.Fatalf("TotalQueries = %d, want 1", got)
	}

	// Garbage payloads are skipped, not fatal to the consumer loop.
	if err := handler(context.Background(), nil, []byte("{not json")); err != nil {
		t.Fatalf("handler on garbage: %v", err)
	}
	if got := agg.Stats().TotalQueries; got != 1 {
		t.Fatalf("TotalQueries after garbage = %d, want 1", got)
	}
}

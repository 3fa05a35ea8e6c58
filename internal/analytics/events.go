// Package analytics tracks query traffic: the search service publishes one
// event per query to Kafka, and the aggregation service folds the stream into
// in-memory stats with periodic PostgreSQL snapshots.
package analytics

import "time"

type EventType string

const (
	EventQuery        EventType = "query"
	EventCacheHit     EventType = "cache_hit"
	EventCacheMiss    EventType = "cache_miss"
	EventKeywordMiss  EventType = "keyword_not_found"
	EventInvalidQuery EventType = "invalid_query"
)

// QueryEvent describes one two-keyword search request.
type QueryEvent struct {
	Type      EventType `json:"type"`
	First     string    `json:"first"`
	Second    string    `json:"second"`
	Matched   int       `json:"matched"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

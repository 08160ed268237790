// Package analytics records one QueryEvent per search request. Events feed an
// in-process Aggregator served on the stats endpoint and, when Kafka is
// enabled, are published in batches to the query-events topic.
package analytics

import "time"

type QueryEvent struct {
	Query     string    `json:"query"`
	Mode      string    `json:"mode"`
	TotalHits int       `json:"total_hits"`
	Cost      int       `json:"cost"`
	LatencyUs int64     `json:"latency_us"`
	CacheHit  bool      `json:"cache_hit"`
	ErrorCode string    `json:"error_code,omitempty"`
	Degraded  bool      `json:"degraded,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Failed reports whether the query was rejected.
func (e QueryEvent) Failed() bool {
	return e.ErrorCode != ""
}

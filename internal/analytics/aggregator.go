package analytics

import (
	"slices"
	"sort"
	"sync"
	"time"
)

const (
	// maxLatencySamples bounds the latency window used for percentiles.
	maxLatencySamples = 10000
	// maxTrackedQueries bounds each per-query counter map.
	maxTrackedQueries = 10000
	// DefaultTopN is how many top and zero-result queries Stats reports.
	DefaultTopN = 10
)

type Stats struct {
	TotalQueries      int64            `json:"total_queries"`
	ByMode            map[string]int64 `json:"by_mode"`
	Rejected          int64            `json:"rejected"`
	Degraded          int64            `json:"degraded"`
	ZeroResultCount   int64            `json:"zero_result_count"`
	CacheHits         int64            `json:"cache_hits"`
	CacheMisses       int64            `json:"cache_misses"`
	AvgLatencyUs      float64          `json:"avg_latency_us"`
	P50LatencyUs      int64            `json:"p50_latency_us"`
	P95LatencyUs      int64            `json:"p95_latency_us"`
	P99LatencyUs      int64            `json:"p99_latency_us"`
	TopQueries        []QueryCount     `json:"top_queries"`
	ZeroResultQueries []QueryCount     `json:"zero_result_queries"`
	QueriesPerMinute  float64          `json:"queries_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator keeps running query statistics in memory.
type Aggregator struct {
	mu          sync.Mutex
	stats       Stats
	latencies   []int64
	next        int
	queryCounts map[string]int64
	zeroCounts  map[string]int64
	maxQueries  int
	startTime   time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		stats:       Stats{ByMode: make(map[string]int64)},
		latencies:   make([]int64, 0, 1024),
		queryCounts: make(map[string]int64),
		zeroCounts:  make(map[string]int64),
		maxQueries:  maxTrackedQueries,
		startTime:   time.Now(),
	}
}

func (a *Aggregator) Record(e QueryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalQueries++
	a.stats.ByMode[e.Mode]++
	countQuery(a.queryCounts, e.Query, a.maxQueries)
	if e.CacheHit {
		a.stats.CacheHits++
	} else {
		a.stats.CacheMisses++
	}
	switch {
	case e.Failed():
		a.stats.Rejected++
	case e.TotalHits == 0:
		a.stats.ZeroResultCount++
		countQuery(a.zeroCounts, e.Query, a.maxQueries)
	}
	if e.Degraded {
		a.stats.Degraded++
	}

	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, e.LatencyUs)
	} else {
		a.latencies[a.next] = e.LatencyUs
		a.next = (a.next + 1) % maxLatencySamples
	}
}

// countQuery increments q in counts. When counts is full every count is
// halved and emptied entries are dropped, so one-off queries make room while
// frequent ones keep their rank. q is skipped if that frees nothing.
func countQuery(counts map[string]int64, q string, limit int) {
	if _, ok := counts[q]; !ok && len(counts) >= limit {
		for k, c := range counts {
			if c /= 2; c == 0 {
				delete(counts, k)
			} else {
				counts[k] = c
			}
		}
		if len(counts) >= limit {
			return
		}
	}
	counts[q]++
}

// Stats returns a copy of the current statistics with DefaultTopN query
// lists.
func (a *Aggregator) Stats() Stats {
	return a.StatsTop(DefaultTopN)
}

// StatsTop is Stats with n entries in the top and zero-result query lists.
func (a *Aggregator) StatsTop(n int) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.stats
	out.ByMode = make(map[string]int64, len(a.stats.ByMode))
	for k, v := range a.stats.ByMode {
		out.ByMode[k] = v
	}
	if len(a.latencies) > 0 {
		sorted := slices.Clone(a.latencies)
		slices.Sort(sorted)
		var sum int64
		for _, l := range sorted {
			sum += l
		}
		out.AvgLatencyUs = float64(sum) / float64(len(sorted))
		out.P50LatencyUs = percentile(sorted, 50)
		out.P95LatencyUs = percentile(sorted, 95)
		out.P99LatencyUs = percentile(sorted, 99)
	}
	out.TopQueries = topN(a.queryCounts, n)
	out.ZeroResultQueries = topN(a.zeroCounts, n)
	if elapsed := time.Since(a.startTime).Minutes(); elapsed > 0 {
		out.QueriesPerMinute = float64(out.TotalQueries) / elapsed
	}
	return out
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

// topN orders by count, then query, so ties are stable.
func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for q, count := range counts {
		result = append(result, QueryCount{Query: q, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedComposeLatency records feed and user-post page composition time by listing and result.
	FeedComposeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outstagram_feed_compose_duration_seconds",
		Help:    "Time spent composing a feed or user-post page",
		Buckets: prometheus.DefBuckets,
	}, []string{"listing", "result"})

	// FeedRowsReturned records how many posts a composed page carried.
	FeedRowsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outstagram_feed_rows_returned",
		Help:    "Number of posts returned per composed page",
		Buckets: []float64{0, 1, 2, 5, 10, 12, 20},
	}, []string{"listing"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outstagram_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheRequests counts cache lookups by cache name and result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outstagram_cache_requests_total",
		Help: "Cache lookups by cache and result",
	}, []string{"cache", "result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outstagram_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RelationshipWrites counts follow approvals by outcome (committed, rolled_back).
	RelationshipWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outstagram_relationship_writes_total",
		Help: "Follow request approvals by outcome",
	}, []string{"outcome"})

	// NotificationsPublished counts published notifications by type and result.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outstagram_notifications_published_total",
		Help: "Notifications published by type and result",
	}, []string{"type", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveCompose records one composed page.
func ObserveCompose(listing string, start time.Time, rows int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	FeedComposeLatency.WithLabelValues(listing, result).Observe(time.Since(start).Seconds())
	if err == nil {
		FeedRowsReturned.WithLabelValues(listing).Observe(float64(rows))
	}
}

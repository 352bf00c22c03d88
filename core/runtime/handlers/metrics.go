package handlers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_queries_total",
			Help: "Total number of queries executed against the document store",
		},
		[]string{"outcome"},
	)

	storeQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Document store query round-trip duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func observeQuery(elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	storeQueriesTotal.WithLabelValues(outcome).Inc()
	storeQueryDuration.Observe(elapsed.Seconds())
}

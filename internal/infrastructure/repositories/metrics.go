package repositories

import (
	"github.com/prometheus/client_golang/prometheus"
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "The total number of cache lookups by key and outcome",
	},
	[]string{"key", "outcome"},
)

func init() {
	prometheus.MustRegister(cacheRequestsTotal)
}

func observeCacheLookup(key, outcome string) {
	cacheRequestsTotal.WithLabelValues(key, outcome).Inc()
}

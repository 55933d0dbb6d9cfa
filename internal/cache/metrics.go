package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_cache_hits_total",
			Help: "Number of cache reads served from a fresh entry",
		},
		[]string{"cache"},
	)

	missesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_cache_misses_total",
			Help: "Number of cache reads that found no fresh entry",
		},
		[]string{"cache"},
	)

	joinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_cache_joins_total",
			Help: "Number of cache reads that shared an in-flight fetch",
		},
		[]string{"cache"},
	)
)

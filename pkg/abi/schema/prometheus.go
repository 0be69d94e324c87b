package schema

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of ABI definition cache hits",
			Name:      "abi_cache_hits",
			Namespace: "tvmabi",
		},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of ABI definition cache misses",
			Name:      "abi_cache_misses",
			Namespace: "tvmabi",
		},
	)

	parseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of failed ABI definition parses",
			Name:      "abi_parse_failures",
			Namespace: "tvmabi",
		},
	)
)

func init() {
	prometheus.MustRegister(
		cacheHits,
		cacheMisses,
		parseFailures,
	)
}

package machine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldstore_node_results_total",
		Help: "Results emitted by machine nodes, by outcome.",
	}, []string{"machine", "node", "kind"})

	nodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coldstore_node_duration_seconds",
		Help:    "Wall-clock time spent executing machine nodes.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"machine", "node"})
)

func observeNode(machine, node string, start time.Time) {
	nodeDuration.WithLabelValues(machine, node).Observe(time.Since(start).Seconds())
}

func observeResult(machine, node string, kind Kind) {
	nodeResults.WithLabelValues(machine, node, string(kind)).Inc()
}

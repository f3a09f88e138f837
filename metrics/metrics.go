// Package metrics exposes Prometheus metrics for durable deck storage.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.sr.ht/~jackmordaunt/decks/storage/lazy"
)

// Storage Prometheus metrics.
var (
	StoreWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decks",
			Name:      "store_writes_total",
			Help:      "Total number of durable deck store operations",
		},
		[]string{"op", "status"},
	)

	StoreWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "decks",
			Name:      "store_write_duration_seconds",
			Help:      "Durable deck store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	DecodeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "decks",
			Name:      "decode_failures_total",
			Help:      "Persisted collections discarded as malformed",
		},
	)

	RegistrySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "decks",
			Name:      "registry_size",
			Help:      "Number of decks in the in-memory registry",
		},
	)
)

var register sync.Once

// Register registers the storage metrics with the default registry.
// Safe to call more than once.
func Register() {
	register.Do(func() {
		prometheus.MustRegister(StoreWritesTotal)
		prometheus.MustRegister(StoreWriteDuration)
		prometheus.MustRegister(DecodeFailuresTotal)
		prometheus.MustRegister(RegistrySize)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

var _ lazy.Hook = Hook{}

// Hook records controller outcomes as metrics.
type Hook struct{}

func (Hook) Written(op lazy.Op, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreWritesTotal.WithLabelValues(string(op), status).Inc()
	StoreWriteDuration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

func (Hook) DecodeFailed(error) {
	DecodeFailuresTotal.Inc()
}

func (Hook) Size(n int) {
	RegistrySize.Set(float64(n))
}

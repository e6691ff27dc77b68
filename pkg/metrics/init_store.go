package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStoreMetrics() {
	r.SnapshotEncodeBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portalmap_snapshot_encode_bytes",
			Help:    "Size of encoded graph snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)

	r.StoreSaveDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portalmap_store_save_duration_seconds",
			Help:    "Blob store save duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.StoreLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portalmap_store_load_duration_seconds",
			Help:    "Blob store load duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
}

// Package metrics exposes prometheus instrumentation for the portal graph.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph state
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	// Mutation counters
	ConnectionsTotal *prometheus.CounterVec
	RenamesTotal     *prometheus.CounterVec
	SweepsTotal      prometheus.Counter
	SweepEdgesTotal  prometheus.Counter
	SweepNodesTotal  prometheus.Counter
	LoadDroppedTotal *prometheus.CounterVec

	// Intake and lookup
	ObservationsTotal *prometheus.CounterVec
	FuzzyLookupsTotal *prometheus.CounterVec

	// Snapshot persistence
	SnapshotEncodeBytes prometheus.Histogram
	StoreSaveDuration   prometheus.Histogram
	StoreLoadDuration   prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGraphMetrics()
	r.initStoreMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// UpdateGraphSize sets the node and edge gauges to the current snapshot counts
func (r *Registry) UpdateGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordConnection records an addConnection outcome
// (result: "created", "refreshed", "rejected")
func (r *Registry) RecordConnection(result string) {
	r.ConnectionsTotal.WithLabelValues(result).Inc()
}

// RecordRename records a rename outcome (result: "ok", "collision", "missing", "invalid")
func (r *Registry) RecordRename(result string) {
	r.RenamesTotal.WithLabelValues(result).Inc()
}

// RecordSweep records one sweep pass and what it removed
func (r *Registry) RecordSweep(edgesExpired, nodesPruned int) {
	r.SweepsTotal.Inc()
	r.SweepEdgesTotal.Add(float64(edgesExpired))
	r.SweepNodesTotal.Add(float64(nodesPruned))
}

// RecordLoadDropped records entities dropped during a sanitizing load
// (reason: "merged_node", "self_loop", "dangling", "duplicate_pair")
func (r *Registry) RecordLoadDropped(reason string, n int) {
	if n > 0 {
		r.LoadDroppedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordObservation records an ingested observation outcome
// (outcome: "accepted", "invalid", "self_loop")
func (r *Registry) RecordObservation(outcome string) {
	r.ObservationsTotal.WithLabelValues(outcome).Inc()
}

// RecordFuzzyLookup records a fuzzy suggestion outcome
// (outcome: "exact", "suggested", "no_match", "invalid")
func (r *Registry) RecordFuzzyLookup(outcome string) {
	r.FuzzyLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordSnapshotEncode records the size of an encoded snapshot
func (r *Registry) RecordSnapshotEncode(bytes int) {
	r.SnapshotEncodeBytes.Observe(float64(bytes))
}

// RecordStoreSave records the duration of a blob-store save
func (r *Registry) RecordStoreSave(duration time.Duration) {
	r.StoreSaveDuration.Observe(duration.Seconds())
}

// RecordStoreLoad records the duration of a blob-store load
func (r *Registry) RecordStoreLoad(duration time.Duration) {
	r.StoreLoadDuration.Observe(duration.Seconds())
}

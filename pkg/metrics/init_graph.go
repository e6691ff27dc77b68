package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "portalmap_graph_nodes",
			Help: "Number of zones in the current graph snapshot",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "portalmap_graph_edges",
			Help: "Number of live portal connections in the current graph snapshot",
		},
	)

	r.ConnectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portalmap_connections_total",
			Help: "Total connection observations applied to the graph",
		},
		[]string{"result"},
	)

	r.RenamesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portalmap_renames_total",
			Help: "Total zone rename attempts",
		},
		[]string{"result"},
	)

	r.SweepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portalmap_sweeps_total",
			Help: "Total expiration sweep passes",
		},
	)

	r.SweepEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portalmap_sweep_edges_expired_total",
			Help: "Total edges removed by expiration sweeps",
		},
	)

	r.SweepNodesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "portalmap_sweep_nodes_pruned_total",
			Help: "Total zones pruned after losing their last live connection",
		},
	)

	r.LoadDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portalmap_load_dropped_total",
			Help: "Entities dropped during sanitizing bulk loads",
		},
		[]string{"reason"},
	)

	r.ObservationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portalmap_observations_total",
			Help: "Total observations received from producers",
		},
		[]string{"outcome"},
	)

	r.FuzzyLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "portalmap_fuzzy_lookups_total",
			Help: "Total fuzzy zone-name lookups",
		},
		[]string{"outcome"},
	)
}

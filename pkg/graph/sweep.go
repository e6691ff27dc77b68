package graph

import (
	"time"

	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/pubsub"
)

// SweepResult reports what an expiration sweep removed.
type SweepResult struct {
	EdgesExpired int
	NodesPruned  int
	// Changed is false when nothing expired; the snapshot pointer is
	// then unchanged and no update was published.
	Changed bool
}

// SweepExpired removes every edge whose expiry has passed, then drops
// zones left without a single live connection. This is the only path
// that removes nodes. When nothing has expired the current snapshot is
// kept as-is so downstream change detection stays quiet.
func (e *Engine) SweepExpired(now time.Time) SweepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.snap.Load()

	expired := 0
	for _, edge := range current.edges {
		if !edge.Live(now) {
			expired++
		}
	}
	if expired == 0 {
		e.metrics.RecordSweep(0, 0)
		return SweepResult{}
	}

	next := &Snapshot{
		nodes: make(map[string]Node),
		edges: make(map[string]Edge, len(current.edges)-expired),
	}
	touched := make(map[string]bool)
	for key, edge := range current.edges {
		if !edge.Live(now) {
			continue
		}
		next.edges[key] = edge
		touched[edge.A] = true
		touched[edge.B] = true
	}
	for id, node := range current.nodes {
		if touched[id] {
			next.nodes[id] = node
		}
	}

	result := SweepResult{
		EdgesExpired: expired,
		NodesPruned:  len(current.nodes) - len(next.nodes),
		Changed:      true,
	}

	e.commit(next, "sweep")
	e.metrics.RecordSweep(result.EdgesExpired, result.NodesPruned)
	if e.bus != nil {
		e.bus.Publish(pubsub.TopicGraphSwept, Update{
			Revision: next.revision,
			Nodes:    len(next.nodes),
			Edges:    len(next.edges),
			Cause:    "sweep",
			Snapshot: next,
		})
	}
	e.logger.Debug("sweep removed expired connections",
		logging.Int("edges_expired", result.EdgesExpired),
		logging.Int("nodes_pruned", result.NodesPruned))
	return result
}

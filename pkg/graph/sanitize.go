package graph

import (
	"github.com/dmorley/portalmap/pkg/identity"
	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/zone"
)

// LoadReport counts what a sanitizing bulk load kept and dropped.
// Drops are diagnostics, never errors: dirty persisted data degrades
// into a clean graph instead of failing the load.
type LoadReport struct {
	NodesKept             int
	NodesMerged           int
	NodesDroppedInvalid   int
	EdgesKept             int
	EdgesDroppedSelfLoop  int
	EdgesDroppedDangling  int
	EdgesDroppedDuplicate int
}

// SetGraph atomically replaces the whole graph with sanitized input.
// The input may predate normalization or come from a producer that never
// normalized: ids are re-normalized, case and whitespace duplicates
// merge into the first occurrence, and edges survive only when both
// endpoints resolve to surviving, distinct zones. Edges that collapse
// onto the same unordered pair after merging are deduplicated keeping
// the latest expiry.
func (e *Engine) SetGraph(nodes []Node, edges []Edge) LoadReport {
	var report LoadReport

	// Every raw id seen as a node maps to its normalized id, so edges
	// written against pre-normalization spellings still resolve.
	rawToID := make(map[string]string, len(nodes))
	cleanNodes := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if !identity.Valid(n.ID) {
			report.NodesDroppedInvalid++
			continue
		}
		id := identity.Normalize(n.ID)
		rawToID[n.ID] = id
		if _, seen := cleanNodes[id]; seen {
			report.NodesMerged++
			continue
		}
		category := n.Category
		if category == zone.Unknown {
			category = e.classifier.Classify(id)
		}
		cleanNodes[id] = Node{ID: id, Name: id, Category: category}
	}
	report.NodesKept = len(cleanNodes)

	resolve := func(raw string) string {
		if id, ok := rawToID[raw]; ok {
			return id
		}
		return identity.Normalize(raw)
	}

	cleanEdges := make(map[string]Edge, len(edges))
	for _, raw := range edges {
		a := resolve(raw.A)
		b := resolve(raw.B)
		if _, ok := cleanNodes[a]; !ok {
			report.EdgesDroppedDangling++
			continue
		}
		if _, ok := cleanNodes[b]; !ok {
			report.EdgesDroppedDangling++
			continue
		}
		if a == b {
			// Accidental self-loop created by the node merge
			report.EdgesDroppedSelfLoop++
			continue
		}
		edge := NewEdge(a, b, raw.ExpiresAt)
		if existing, dup := cleanEdges[edge.Key()]; dup {
			report.EdgesDroppedDuplicate++
			if !edge.ExpiresAt.After(existing.ExpiresAt) {
				continue
			}
		}
		cleanEdges[edge.Key()] = edge
	}
	report.EdgesKept = len(cleanEdges)

	e.mu.Lock()
	defer e.mu.Unlock()

	next := &Snapshot{nodes: cleanNodes, edges: cleanEdges}
	e.commit(next, "set_graph")

	e.metrics.RecordLoadDropped("merged_node", report.NodesMerged)
	e.metrics.RecordLoadDropped("invalid_node", report.NodesDroppedInvalid)
	e.metrics.RecordLoadDropped("self_loop", report.EdgesDroppedSelfLoop)
	e.metrics.RecordLoadDropped("dangling", report.EdgesDroppedDangling)
	e.metrics.RecordLoadDropped("duplicate_pair", report.EdgesDroppedDuplicate)

	dropped := report.NodesMerged + report.NodesDroppedInvalid +
		report.EdgesDroppedSelfLoop + report.EdgesDroppedDangling + report.EdgesDroppedDuplicate
	if dropped > 0 {
		e.logger.Warn("sanitizing load dropped entities",
			logging.Int("nodes_merged", report.NodesMerged),
			logging.Int("nodes_invalid", report.NodesDroppedInvalid),
			logging.Int("edges_self_loop", report.EdgesDroppedSelfLoop),
			logging.Int("edges_dangling", report.EdgesDroppedDangling),
			logging.Int("edges_duplicate", report.EdgesDroppedDuplicate))
	}
	e.logger.Info("graph loaded",
		logging.Int("nodes", report.NodesKept), logging.Int("edges", report.EdgesKept))
	return report
}

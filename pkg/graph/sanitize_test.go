package graph

import (
	"testing"
	"time"

	"github.com/dmorley/portalmap/pkg/zone"
)

// TestSetGraphMergesDuplicates verifies case-variant nodes merge and the
// resulting self-loop edge is dropped
func TestSetGraphMergesDuplicates(t *testing.T) {
	e := newTestEngine(t0)

	report := e.SetGraph(
		[]Node{{ID: "Zone A"}, {ID: "ZONE A"}},
		[]Edge{{A: "Zone A", B: "ZONE A", ExpiresAt: t0.Add(time.Hour)}},
	)

	if report.NodesKept != 1 || report.NodesMerged != 1 {
		t.Errorf("nodes kept/merged = %d/%d, want 1/1", report.NodesKept, report.NodesMerged)
	}
	if report.EdgesKept != 0 || report.EdgesDroppedSelfLoop != 1 {
		t.Errorf("edges kept/self-loop = %d/%d, want 0/1", report.EdgesKept, report.EdgesDroppedSelfLoop)
	}

	snap := e.Snapshot()
	if snap.NodeCount() != 1 || snap.EdgeCount() != 0 {
		t.Fatalf("graph = %d nodes, %d edges, want 1/0", snap.NodeCount(), snap.EdgeCount())
	}
	node, ok := snap.Node("ZONE A")
	if !ok {
		t.Fatal("merged node ZONE A missing")
	}
	if node.Name != "ZONE A" {
		t.Errorf("name = %q, want forced equal to id", node.Name)
	}
}

// TestSetGraphResolvesRawEdgeRefs verifies edges written against
// pre-normalization spellings resolve through the raw-id mapping
func TestSetGraphResolvesRawEdgeRefs(t *testing.T) {
	e := newTestEngine(t0)

	report := e.SetGraph(
		[]Node{{ID: "  martlock "}, {ID: "Lymhurst"}},
		[]Edge{{A: "  martlock ", B: "Lymhurst", ExpiresAt: t0.Add(time.Hour)}},
	)

	if report.EdgesKept != 1 {
		t.Fatalf("edges kept = %d, want 1", report.EdgesKept)
	}
	if _, ok := e.Snapshot().Edge("MARTLOCK", "LYMHURST"); !ok {
		t.Error("edge endpoints were not resolved to normalized ids")
	}
}

// TestSetGraphDropsDangling verifies edges referencing absent zones are dropped
func TestSetGraphDropsDangling(t *testing.T) {
	e := newTestEngine(t0)

	report := e.SetGraph(
		[]Node{{ID: "A"}},
		[]Edge{
			{A: "A", B: "GHOST", ExpiresAt: t0.Add(time.Hour)},
			{A: "PHANTOM", B: "A", ExpiresAt: t0.Add(time.Hour)},
		},
	)

	if report.EdgesDroppedDangling != 2 {
		t.Errorf("dangling = %d, want 2", report.EdgesDroppedDangling)
	}
	if e.Snapshot().EdgeCount() != 0 {
		t.Error("dangling edge survived")
	}
}

// TestSetGraphDeduplicatesPairs verifies duplicate rows for the same
// unordered pair collapse to one edge keeping the latest expiry
func TestSetGraphDeduplicatesPairs(t *testing.T) {
	e := newTestEngine(t0)

	early := t0.Add(10 * time.Minute)
	late := t0.Add(50 * time.Minute)
	report := e.SetGraph(
		[]Node{{ID: "A"}, {ID: "B"}},
		[]Edge{
			{A: "A", B: "B", ExpiresAt: early},
			{A: "B", B: "A", ExpiresAt: late},
			{A: "a", B: "b", ExpiresAt: early},
		},
	)

	if report.EdgesKept != 1 || report.EdgesDroppedDuplicate != 2 {
		t.Errorf("kept/duplicate = %d/%d, want 1/2", report.EdgesKept, report.EdgesDroppedDuplicate)
	}
	edge, ok := e.Snapshot().Edge("A", "B")
	if !ok {
		t.Fatal("deduplicated edge missing")
	}
	if !edge.ExpiresAt.Equal(late) {
		t.Errorf("expiresAt = %v, want latest %v", edge.ExpiresAt, late)
	}
}

// TestSetGraphClassifierDefault verifies absent categories come from the
// classifier and stated ones are kept
func TestSetGraphClassifierDefault(t *testing.T) {
	e := newTestEngine(t0)

	e.SetGraph(
		[]Node{
			{ID: "Martlock"},
			{ID: "Nowhere", Category: zone.Black},
		},
		nil,
	)

	snap := e.Snapshot()
	if n, _ := snap.Node("MARTLOCK"); n.Category != zone.Royal {
		t.Errorf("MARTLOCK category = %v, want classifier's Royal", n.Category)
	}
	if n, _ := snap.Node("NOWHERE"); n.Category != zone.Black {
		t.Errorf("NOWHERE category = %v, want stated Black", n.Category)
	}
}

// TestSetGraphDropsInvalidNodes verifies empty ids are dropped, not kept
func TestSetGraphDropsInvalidNodes(t *testing.T) {
	e := newTestEngine(t0)

	report := e.SetGraph([]Node{{ID: "   "}, {ID: ""}, {ID: "A"}}, nil)
	if report.NodesKept != 1 || report.NodesDroppedInvalid != 2 {
		t.Errorf("kept/invalid = %d/%d, want 1/2", report.NodesKept, report.NodesDroppedInvalid)
	}
}

// TestSetGraphReplacesAtomically verifies prior state is fully replaced
func TestSetGraphReplacesAtomically(t *testing.T) {
	e := newTestEngine(t0)

	e.AddConnection("OLD1", "OLD2", 60)
	e.SetGraph([]Node{{ID: "NEW"}}, nil)

	snap := e.Snapshot()
	if _, ok := snap.Node("OLD1"); ok {
		t.Error("bulk load did not replace prior nodes")
	}
	if snap.NodeCount() != 1 || snap.EdgeCount() != 0 {
		t.Errorf("graph = %d nodes, %d edges, want 1/0", snap.NodeCount(), snap.EdgeCount())
	}
}

// Package graph owns the authoritative portal-graph state: the node and
// edge sets, every mutation path, and the expiration sweep that prunes
// dead connections. All writers funnel through the Engine; readers get
// immutable snapshots.
package graph

import (
	"sort"
	"time"

	"github.com/dmorley/portalmap/pkg/zone"
)

// Node is a zone in the portal graph. ID is the canonical key produced
// by identity.Normalize and doubles as the display name source.
type Node struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category zone.Category `json:"category"`
}

// Edge is a time-bound undirected portal connection. Endpoints are bare
// canonical ids held in sorted order (A < B) so each unordered pair has
// exactly one representation.
type Edge struct {
	A         string    `json:"a"`
	B         string    `json:"b"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewEdge builds an edge with its endpoints in canonical order.
func NewEdge(a, b string, expiresAt time.Time) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b, ExpiresAt: expiresAt}
}

// Key returns the unordered-pair key for this edge.
func (e Edge) Key() string {
	return PairKey(e.A, e.B)
}

// Live reports whether the edge has not yet expired at now.
func (e Edge) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool {
	return e.A == id || e.B == id
}

// PairKey maps an unordered id pair to its canonical key. The NUL
// separator cannot occur in a normalized id, so distinct pairs never
// collide.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Snapshot is one immutable revision of the graph. Mutations never touch
// an existing Snapshot; the Engine builds a replacement and swaps it in
// as a whole, so a reader's Snapshot stays internally consistent forever.
type Snapshot struct {
	revision uint64
	nodes    map[string]Node
	edges    map[string]Edge
}

func emptySnapshot(revision uint64) *Snapshot {
	return &Snapshot{
		revision: revision,
		nodes:    make(map[string]Node),
		edges:    make(map[string]Edge),
	}
}

// clone copies the snapshot's collections for the next revision.
func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		revision: s.revision,
		nodes:    make(map[string]Node, len(s.nodes)),
		edges:    make(map[string]Edge, len(s.edges)),
	}
	for id, n := range s.nodes {
		next.nodes[id] = n
	}
	for k, e := range s.edges {
		next.edges[k] = e
	}
	return next
}

// Revision returns the snapshot's revision number.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}

// Node looks up a node by canonical id.
func (s *Snapshot) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge looks up the edge for an unordered pair of ids.
func (s *Snapshot) Edge(a, b string) (Edge, bool) {
	e, ok := s.edges[PairKey(a, b)]
	return e, ok
}

// NodeCount returns the number of zones.
func (s *Snapshot) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of connections.
func (s *Snapshot) EdgeCount() int {
	return len(s.edges)
}

// Nodes returns all zones ordered by id.
func (s *Snapshot) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all connections ordered by endpoint pair.
func (s *Snapshot) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Update is the payload published on every effective mutation.
type Update struct {
	Revision uint64
	Nodes    int
	Edges    int
	Cause    string
	Snapshot *Snapshot
}

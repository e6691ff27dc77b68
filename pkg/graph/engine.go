package graph

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmorley/portalmap/pkg/identity"
	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/metrics"
	"github.com/dmorley/portalmap/pkg/pubsub"
	"github.com/dmorley/portalmap/pkg/zone"
)

// AddResult reports what AddConnection did to the edge set.
type AddResult int

const (
	// ConnectionRejected means the observation was a no-op.
	ConnectionRejected AddResult = iota
	// ConnectionCreated means a new edge (and possibly nodes) appeared.
	ConnectionCreated
	// ConnectionRefreshed means an existing pair's expiry was replaced.
	ConnectionRefreshed
)

// String returns the metric label for the result.
func (r AddResult) String() string {
	switch r {
	case ConnectionCreated:
		return "created"
	case ConnectionRefreshed:
		return "refreshed"
	default:
		return "rejected"
	}
}

// Options configures an Engine. Zero-value fields get safe defaults:
// nop logger, fresh metrics registry, no bus, Unknown-only classifier,
// time.Now.
type Options struct {
	Classifier zone.Classifier
	Logger     logging.Logger
	Metrics    *metrics.Registry
	Bus        *pubsub.PubSub
	Now        func() time.Time
}

// Engine is the single owner of the portal graph. Every mutation
// serializes through its mutex and commits by swapping in a complete
// replacement snapshot; external producers and the sweeper can never
// interleave half-applied changes.
type Engine struct {
	mu         sync.Mutex
	snap       atomic.Pointer[Snapshot]
	classifier zone.Classifier
	logger     logging.Logger
	metrics    *metrics.Registry
	bus        *pubsub.PubSub
	now        func() time.Time
}

// NewEngine creates an engine holding an empty graph.
func NewEngine(opts Options) *Engine {
	if opts.Classifier == nil {
		opts.Classifier = zone.ClassifierFunc(func(string) zone.Category {
			return zone.Unknown
		})
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{
		classifier: opts.Classifier,
		logger:     opts.Logger.With(logging.Component("graph.engine")),
		metrics:    opts.Metrics,
		bus:        opts.Bus,
		now:        opts.Now,
	}
	e.snap.Store(emptySnapshot(0))
	return e
}

// Snapshot returns the current graph revision. The returned value is
// immutable and safe to read from any goroutine.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// commit installs next as the new current snapshot, bumps the revision,
// and notifies subscribers. Callers hold e.mu.
func (e *Engine) commit(next *Snapshot, cause string) {
	next.revision = e.snap.Load().revision + 1
	e.snap.Store(next)
	e.metrics.UpdateGraphSize(len(next.nodes), len(next.edges))
	if e.bus != nil {
		e.bus.Publish(pubsub.TopicGraphUpdated, Update{
			Revision: next.revision,
			Nodes:    len(next.nodes),
			Edges:    len(next.edges),
			Cause:    cause,
			Snapshot: next,
		})
	}
}

// AddConnection applies one portal observation: origin and destination
// as typed, and how many minutes the portal has left. Both endpoints are
// normalized; missing names and self-loops are rejected as no-ops with a
// sentinel error. The unordered pair gets exactly one edge: a repeat
// observation replaces the edge value with a fresh expiry.
func (e *Engine) AddConnection(origin, destination string, minutes int) (AddResult, error) {
	if !identity.Valid(origin) || !identity.Valid(destination) {
		e.metrics.RecordConnection(ConnectionRejected.String())
		return ConnectionRejected, ErrInvalidObservation
	}

	a := identity.Normalize(origin)
	b := identity.Normalize(destination)
	if a == b {
		e.logger.Debug("self-loop rejected", logging.Zone(a))
		e.metrics.RecordConnection(ConnectionRejected.String())
		return ConnectionRejected, ErrSelfLoop
	}

	expiresAt := e.now().Add(time.Duration(minutes) * time.Minute)

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.snap.Load().clone()
	for _, id := range []string{a, b} {
		if _, ok := next.nodes[id]; !ok {
			next.nodes[id] = Node{ID: id, Name: id, Category: e.classifier.Classify(id)}
		}
	}

	edge := NewEdge(a, b, expiresAt)
	result := ConnectionCreated
	if _, ok := next.edges[edge.Key()]; ok {
		result = ConnectionRefreshed
	}
	next.edges[edge.Key()] = edge

	e.commit(next, "add_connection")
	e.metrics.RecordConnection(result.String())
	e.logger.Info("connection observed",
		logging.Origin(a), logging.Destination(b),
		logging.Int("minutes", minutes), logging.String("result", result.String()))
	return result, nil
}

// RenameZone changes a zone's id and name atomically and rewrites every
// edge endpoint that referenced the old id. It fails without touching
// the graph when the old zone is missing or the new id already belongs
// to a different zone. Renaming a zone to a case or whitespace variant
// of itself is a no-op success.
func (e *Engine) RenameZone(oldName, newName string) error {
	if !identity.Valid(oldName) || !identity.Valid(newName) {
		e.metrics.RecordRename("invalid")
		return ErrInvalidObservation
	}

	oldID := identity.Normalize(oldName)
	newID := identity.Normalize(newName)

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.snap.Load()
	node, ok := current.nodes[oldID]
	if !ok {
		e.metrics.RecordRename("missing")
		return ErrZoneNotFound
	}
	if oldID == newID {
		e.metrics.RecordRename("ok")
		return nil
	}
	if _, taken := current.nodes[newID]; taken {
		e.logger.Warn("rename collision",
			logging.Zone(oldID), logging.String("target", newID))
		e.metrics.RecordRename("collision")
		return ErrRenameCollision
	}

	next := current.clone()
	delete(next.nodes, oldID)
	node.ID = newID
	node.Name = newID
	next.nodes[newID] = node

	for key, edge := range next.edges {
		if !edge.Touches(oldID) {
			continue
		}
		other := edge.A
		if other == oldID {
			other = edge.B
		}
		delete(next.edges, key)
		renamed := NewEdge(newID, other, edge.ExpiresAt)
		next.edges[renamed.Key()] = renamed
	}

	e.commit(next, "rename_zone")
	e.metrics.RecordRename("ok")
	e.logger.Info("zone renamed", logging.Zone(oldID), logging.String("target", newID))
	return nil
}

// SetZoneCategory overrides a zone's category. Returns false without
// effect when the zone is absent. Edges are never touched.
func (e *Engine) SetZoneCategory(name string, category zone.Category) bool {
	if !identity.Valid(name) {
		return false
	}
	id := identity.Normalize(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.snap.Load()
	node, ok := current.nodes[id]
	if !ok {
		return false
	}
	if node.Category == category {
		return true
	}

	next := current.clone()
	node.Category = category
	next.nodes[id] = node

	e.commit(next, "set_category")
	e.logger.Info("zone category changed",
		logging.Zone(id), logging.String("category", category.String()))
	return true
}

// Clear replaces the graph with empty node and edge sets.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.commit(emptySnapshot(0), "clear")
	e.logger.Info("graph cleared")
}

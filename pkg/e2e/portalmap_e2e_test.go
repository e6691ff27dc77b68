package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorley/portalmap/pkg/codec"
	"github.com/dmorley/portalmap/pkg/fuzzy"
	"github.com/dmorley/portalmap/pkg/graph"
	"github.com/dmorley/portalmap/pkg/ingest"
	"github.com/dmorley/portalmap/pkg/store"
	"github.com/dmorley/portalmap/pkg/zone"
)

// TestObserveSweepPersistRestore walks the full lifecycle: observations
// arrive, expired connections are swept, the survivor is persisted
// through the codec and blob store, and a fresh engine restores it.
func TestObserveSweepPersistRestore(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	vocab := zone.NewVocabulary([]zone.Entry{
		{Name: "Martlock", Category: zone.Royal},
		{Name: "Qiitun-Ozos", Category: zone.Avalon},
		{Name: "Deathwisp Sink", Category: zone.Black},
	})

	engine := graph.NewEngine(graph.Options{
		Classifier: vocab,
		Now:        func() time.Time { return t0 },
	})
	ingestor := ingest.NewIngestor(engine, nil, nil)

	// A user types one connection; the AI pipeline delivers another,
	// plus garbage that must be rejected without side effects
	origin, dest, minutes := "Martlock", "Qiitun-Ozos", 45
	result := ingestor.Process(ingest.Observation{
		Origin: &origin, Destination: &dest, Minutes: &minutes, Source: "manual",
	})
	require.True(t, result.Accepted())

	short := 5
	aiOrigin, aiDest := "qiitun-ozos", "Deathwisp Sink"
	result = ingestor.Process(ingest.Observation{
		Origin: &aiOrigin, Destination: &aiDest, Minutes: &short, Source: "ai",
	})
	require.True(t, result.Accepted())

	bad := ingest.Observation{Origin: &origin, Source: "ai"}
	require.False(t, ingestor.Process(bad).Accepted())

	snap := engine.Snapshot()
	require.Equal(t, 3, snap.NodeCount())
	require.Equal(t, 2, snap.EdgeCount())

	// Fuzzy check: a typo of a known zone suggests the canonical name
	suggestion := fuzzy.Suggest("Martlok", vocab.Names())
	assert.False(t, suggestion.Valid)
	require.NotEmpty(t, suggestion.Suggestions)
	assert.Equal(t, "MARTLOCK", suggestion.Suggestions[0])

	// The short-lived portal expires; its exclusive zone goes with it
	sweep := engine.SweepExpired(t0.Add(10 * time.Minute))
	assert.Equal(t, 1, sweep.EdgesExpired)
	assert.Equal(t, 1, sweep.NodesPruned)

	snap = engine.Snapshot()
	_, hasSink := snap.Node("DEATHWISP SINK")
	assert.False(t, hasSink, "zone with no live connections should be pruned")

	// Persist through the codec into an in-memory blob store
	blobs, err := store.NewBadgerStore("", true, nil)
	require.NoError(t, err)
	defer blobs.Close()

	encoded, err := codec.Encode(snap)
	require.NoError(t, err)
	require.NoError(t, blobs.Save(ctx, encoded))

	// A fresh process restores the same graph via the sanitizing load
	loaded, err := blobs.Load(ctx)
	require.NoError(t, err)
	wire, err := codec.Decode(loaded)
	require.NoError(t, err)

	restoredEngine := graph.NewEngine(graph.Options{Classifier: vocab})
	nodes, edges := codec.FromWire(wire)
	report := restoredEngine.SetGraph(nodes, edges)
	assert.Equal(t, 2, report.NodesKept)
	assert.Equal(t, 1, report.EdgesKept)

	restored := restoredEngine.Snapshot()
	node, ok := restored.Node("MARTLOCK")
	require.True(t, ok)
	assert.Equal(t, zone.Royal, node.Category)

	edge, ok := restored.Edge("MARTLOCK", "QIITUN-OZOS")
	require.True(t, ok)
	assert.Equal(t, t0.Add(45*time.Minute).UnixMilli(), edge.ExpiresAt.UnixMilli())
}

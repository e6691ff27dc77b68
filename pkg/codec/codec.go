// Package codec serializes graph snapshots to the persisted wire form
// and reconstitutes them on load. The wire JSON carries absolute expiry
// times as Unix milliseconds and tolerates edge endpoints that arrive as
// bare id strings or as richer objects left behind by a rendering layer.
package codec

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/golang/snappy"

	"github.com/dmorley/portalmap/pkg/graph"
	"github.com/dmorley/portalmap/pkg/zone"
)

// Frame layout: [Magic:4][Version:1][Checksum:4][DataLen:4][Data:N]
// where Data is the snappy-compressed wire JSON.
const (
	frameMagic   uint32 = 0x504D4150 // "PMAP"
	frameVersion byte   = 1
	headerSize          = 13
)

// WireVersion is the wire JSON schema version written by Encode.
const WireVersion = 1

var (
	// ErrCorrupt marks a frame that fails structural or checksum validation.
	ErrCorrupt = errors.New("snapshot data corrupt")
	// ErrUnsupportedVersion marks a frame or wire version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// EndpointRef is one edge endpoint on the wire. It decodes from either a
// bare id string or an object carrying an "id" field, and always encodes
// back to the bare string, so richer renderer objects never persist.
type EndpointRef struct {
	ID string
}

// MarshalJSON writes the bare id string.
func (r EndpointRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts "ZONE" or {"id": "ZONE", ...}.
func (r *EndpointRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.ID = s
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("endpoint reference: %w", err)
	}
	r.ID = obj.ID
	return nil
}

// WireNode is a zone row on the wire.
type WireNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// WireEdge is a connection row on the wire. Expires is Unix milliseconds.
type WireEdge struct {
	Source  EndpointRef `json:"source"`
	Target  EndpointRef `json:"target"`
	Expires int64       `json:"expires"`
}

// WireGraph is the persisted snapshot shape.
type WireGraph struct {
	Version int        `json:"version"`
	Nodes   []WireNode `json:"nodes"`
	Edges   []WireEdge `json:"edges"`
}

// ToWire converts a snapshot to its wire form.
func ToWire(snap *graph.Snapshot) WireGraph {
	nodes := snap.Nodes()
	edges := snap.Edges()

	w := WireGraph{
		Version: WireVersion,
		Nodes:   make([]WireNode, len(nodes)),
		Edges:   make([]WireEdge, len(edges)),
	}
	for i, n := range nodes {
		w.Nodes[i] = WireNode{ID: n.ID, Name: n.Name, Type: n.Category.String()}
	}
	for i, e := range edges {
		w.Edges[i] = WireEdge{
			Source:  EndpointRef{ID: e.A},
			Target:  EndpointRef{ID: e.B},
			Expires: e.ExpiresAt.UnixMilli(),
		}
	}
	return w
}

// FromWire converts wire rows into engine input. The result is raw: ids
// may be dirty, so it must go through the engine's sanitizing SetGraph,
// never a direct assignment.
func FromWire(w WireGraph) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, len(w.Nodes))
	for i, n := range w.Nodes {
		name := n.Name
		if name == "" {
			name = n.ID
		}
		nodes[i] = graph.Node{ID: n.ID, Name: name, Category: zone.ParseCategory(n.Type)}
	}
	edges := make([]graph.Edge, len(w.Edges))
	for i, e := range w.Edges {
		edges[i] = graph.Edge{
			A:         e.Source.ID,
			B:         e.Target.ID,
			ExpiresAt: time.UnixMilli(e.Expires),
		}
	}
	return nodes, edges
}

// Encode serializes a snapshot: wire JSON, snappy compression, then the
// checksummed frame.
func Encode(snap *graph.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(ToWire(snap))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	compressed := snappy.Encode(nil, payload)

	out := make([]byte, headerSize+len(compressed))
	binary.BigEndian.PutUint32(out[0:4], frameMagic)
	out[4] = frameVersion
	binary.BigEndian.PutUint32(out[5:9], crc32.ChecksumIEEE(compressed))
	binary.BigEndian.PutUint32(out[9:13], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

// Decode reads a persisted snapshot. Data starting with '{' is accepted
// as legacy uncompressed JSON from before the framed format; anything
// else must be a valid frame with a matching checksum.
func Decode(data []byte) (WireGraph, error) {
	var w WireGraph
	if len(data) == 0 {
		return w, fmt.Errorf("%w: empty data", ErrCorrupt)
	}

	payload := data
	if data[0] != '{' {
		if len(data) < headerSize {
			return w, fmt.Errorf("%w: truncated frame header", ErrCorrupt)
		}
		if binary.BigEndian.Uint32(data[0:4]) != frameMagic {
			return w, fmt.Errorf("%w: bad magic", ErrCorrupt)
		}
		if data[4] != frameVersion {
			return w, fmt.Errorf("%w: frame version %d", ErrUnsupportedVersion, data[4])
		}
		checksum := binary.BigEndian.Uint32(data[5:9])
		length := binary.BigEndian.Uint32(data[9:13])
		if uint32(len(data)-headerSize) != length {
			return w, fmt.Errorf("%w: frame length mismatch", ErrCorrupt)
		}
		compressed := data[headerSize:]
		if crc32.ChecksumIEEE(compressed) != checksum {
			return w, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
		}
		decoded, err := snappy.Decode(nil, compressed)
		if err != nil {
			return w, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		payload = decoded
	}

	if err := json.Unmarshal(payload, &w); err != nil {
		return w, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if w.Version > WireVersion {
		return w, fmt.Errorf("%w: wire version %d", ErrUnsupportedVersion, w.Version)
	}
	return w, nil
}

package graph

import "errors"

// Expected-input rejections. These are signals, not faults: observations
// come from imperfect AI extraction and user typing, so the engine
// reports them as plain sentinel values and leaves the graph untouched.
var (
	// ErrInvalidObservation marks a missing or empty endpoint or name.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrSelfLoop marks a connection whose endpoints normalize to the same zone.
	ErrSelfLoop = errors.New("connection endpoints are the same zone")
	// ErrZoneNotFound marks an operation on a zone absent from the graph.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrRenameCollision marks a rename whose target id belongs to a
	// different existing zone; renames never silently merge zones.
	ErrRenameCollision = errors.New("rename target already exists")
)

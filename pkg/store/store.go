// Package store provides persistence for labeling run results.
//
// This package defines the Store interface for saved runs, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Architecture
//
// A Run captures one completed threshold search: the input fingerprint,
// summary statistics, and the per-point rows. Runs are identified by
// UUIDs so API clients can fetch results later without resubmitting the
// point set. The Store interface supports:
//   - Put/Get/Delete operations
//   - Listing recent runs, newest first
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "labelgrid")
//
// Save and retrieve runs:
//
//	run := store.NewRun(result.PointsHash, rows, stats)
//	if err := st.Put(ctx, run); err != nil {
//	    return err
//	}
//
//	run, err := st.Get(ctx, id)
//	if run == nil {
//	    // Run not found
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmelv/labelgrid/pkg/csvio"
)

// Run is one stored labeling run.
type Run struct {
	ID         string      `json:"id" bson:"_id"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	PointsHash string      `json:"points_hash" bson:"points_hash"`
	PointCount int         `json:"point_count" bson:"point_count"`
	Coverage   float64     `json:"coverage" bson:"coverage"`
	Trials     int         `json:"trials" bson:"trials"`
	Rows       []csvio.Row `json:"rows" bson:"rows"`
}

// NewRun creates a run record with a fresh UUID.
func NewRun(pointsHash string, rows []csvio.Row, trials int, coverage float64) *Run {
	return &Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		PointsHash: pointsHash,
		PointCount: len(rows),
		Coverage:   coverage,
		Trials:     trials,
		Rows:       rows,
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Put stores a run.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit caps List when callers pass a non-positive limit.
const DefaultListLimit = 50

// Package cache provides byte-level caching for placement pipeline
// results, with file, Redis and null backends behind one interface.
//
// Threshold searches are deterministic in their inputs, so a search over
// an unchanged point set and unchanged options can be answered from cache
// without running a single placement trial. Keys are derived by hashing
// the inputs; see Keyer.
package cache

import (
	"context"
	"time"
)

// TTLs per cached artifact class. Search results never go stale on their
// own, they are only invalidated by different inputs, so the TTLs mostly
// bound disk usage.
const (
	// TTLSearch applies to threshold search results.
	TTLSearch = 30 * 24 * time.Hour

	// TTLPlacement applies to single placement passes.
	TTLPlacement = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get returns (nil, false, nil) on a miss; an error is reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the value for key, reporting whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SearchKeyOpts are the search parameters that shape a result and must
// therefore participate in the cache key.
type SearchKeyOpts struct {
	SMin        float64
	SMax        float64
	EpsRel      float64
	Growth      float64
	MaxGrowth   int
	MaxRefine   int
	MultiSample bool
	PreSamples  int
}

// Keyer derives cache keys from pipeline inputs.
type Keyer interface {
	// SearchKey generates a key for a threshold search result given the
	// hash of the input point set and the effective options.
	SearchKey(pointsHash string, opts SearchKeyOpts) string

	// PlacementKey generates a key for a single placement pass at a
	// shared size.
	PlacementKey(pointsHash string, size float64) string
}

// DefaultKeyer hashes inputs into namespaced SHA-256 keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SearchKey generates a key in the search namespace.
func (k *DefaultKeyer) SearchKey(pointsHash string, opts SearchKeyOpts) string {
	return hashKey("search", pointsHash, opts)
}

// PlacementKey generates a key in the placement namespace.
func (k *DefaultKeyer) PlacementKey(pointsHash string, size float64) string {
	return hashKey("place", pointsHash, size)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// API server uses this to keep per-deployment caches separate when they
// share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SearchKey generates a prefixed key for a threshold search result.
func (k *ScopedKeyer) SearchKey(pointsHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(pointsHash, opts)
}

// PlacementKey generates a prefixed key for a placement pass.
func (k *ScopedKeyer) PlacementKey(pointsHash string, size float64) string {
	return k.prefix + k.inner.PlacementKey(pointsHash, size)
}

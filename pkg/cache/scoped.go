package cache

// ScopedKeyer wraps a Keyer with a prefix, giving every tenant of a shared
// backend its own key space.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "project:billing:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SortKey returns the prefixed key of the inner keyer.
func (k *ScopedKeyer) SortKey(manifestHash string, opts SortKeyOpts) string {
	return k.prefix + k.inner.SortKey(manifestHash, opts)
}

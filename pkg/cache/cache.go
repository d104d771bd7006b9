package cache

import (
	"context"
	"time"
)

// TTLSort is how long sort results stay cached. Results depend only on the
// manifest content, so the TTL merely bounds storage.
const TTLSort = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Backends must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SortKeyOpts are the options that change a sort result.
type SortKeyOpts struct {
	Grouped          bool   `json:"grouped"`
	SameTypeGrouping bool   `json:"same_type_grouping"`
	CycleMode        string `json:"cycle_mode"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SortKey returns the key of a sort result for a manifest hash.
	SortKey(manifestHash string, opts SortKeyOpts) string
}

// DefaultKeyer produces keys of the form "sort:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SortKey hashes the manifest hash together with opts.
func (DefaultKeyer) SortKey(manifestHash string, opts SortKeyOpts) string {
	return hashKey("sort", manifestHash, opts)
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/cache"
	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/observability"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

const cacheKeyType = "sort"

// Runner executes sorts with caching.
//
// The Runner keeps no per-run state, so one Runner may serve concurrent
// runs as long as its cache does.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL of stored results. Zero means cache.TTLSort.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run sorts the manifest's elements.
//
// Sort failures are returned unwrapped enough for errors.As to reach
// *topsort.CircularDependencyError and *topsort.ElementNotFoundError.
// Failed runs are never cached.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	res := opts.resolve(m)

	data, err := m.Marshal()
	if err != nil {
		return nil, fmt.Errorf("hash manifest: %w", err)
	}
	hash := cache.Hash(data)
	key := r.Keyer.SortKey(hash, res.keyOpts(opts.Grouped))

	if !opts.Refresh {
		if result, ok := r.lookup(ctx, key, logger); ok {
			result.ManifestHash = hash
			result.Stats.Elements = len(m.Elements)
			logger.Debug("cache hit", "key", key)
			return result, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Sort().OnSortStart(ctx, len(m.Elements), opts.Grouped)
	cached, err := r.sort(ctx, m, opts, res, logger)
	elapsed := time.Since(start)
	observability.Sort().OnSortComplete(ctx, len(m.Elements), elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}

	logger.Info("sorted elements",
		"elements", len(m.Elements),
		"groups", len(cached.Groups),
		"cycles", len(cached.Cycles),
		"duration", elapsed)

	r.store(ctx, key, cached, logger)

	result := cached.result()
	result.ManifestHash = hash
	result.Stats.Elements = len(m.Elements)
	result.Stats.SortTime = elapsed
	return result, nil
}

func (r *Runner) sort(ctx context.Context, m *manifest.Manifest, opts Options, res resolved, logger *log.Logger) (*cachedResult, error) {
	reg, err := m.Registry()
	if err != nil {
		return nil, err
	}

	out := &cachedResult{Edges: reg.EdgeCount()}
	sortOpts := []topsort.Option{
		topsort.WithEncoding(opts.Encoding),
		topsort.WithLogger(logger),
		topsort.WithCycleDetection(res.detect),
		topsort.WithSameTypeExtraGrouping(res.sameType),
	}
	if res.intercept {
		sortOpts = append(sortOpts, topsort.WithCircularInterceptor(func(path []string) {
			logger.Warn("circular dependency", "path", path)
			observability.Sort().OnCycle(ctx, path)
			out.Cycles = append(out.Cycles, path)
		}))
	}

	if !opts.Grouped {
		out.Order, err = topsort.NewSorterFromRegistry(reg, sortOpts...).Sort()
		return out, err
	}

	s := topsort.NewGroupedSorterFromRegistry(reg, sortOpts...)
	if out.Groups, err = s.SortGrouped(); err != nil {
		return nil, err
	}
	out.Order = make([]string, 0, reg.Len())
	for _, g := range out.Groups {
		out.Order = append(out.Order, g.Elements...)
	}
	return out, nil
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)

	result := cached.result()
	result.CacheHit = true
	return result, true
}

// store writes a result to the cache. Cache failures never fail a run.
func (r *Runner) store(ctx context.Context, key string, cached *cachedResult, logger *log.Logger) {
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLSort
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

func (c *cachedResult) result() *Result {
	return &Result{
		Order:  c.Order,
		Groups: c.Groups,
		Cycles: c.Cycles,
		Stats:  Stats{Edges: c.Edges, Groups: len(c.Groups)},
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

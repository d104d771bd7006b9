// Package pipeline runs sorts with caching, logging and instrumentation.
//
// Both the CLI and the HTTP API go through a [Runner], so a manifest sorts
// the same way and hits the same cache entries no matter where it came from.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Run(ctx, m, pipeline.Options{Grouped: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range result.Groups {
//	    fmt.Println(g.Type, g.Elements)
//	}
//
// # Options
//
// Options left nil fall back to the manifest's own [manifest.Options], and
// then to the defaults: cycle detection on, same-type grouping off.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/cache"
	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

// Options configures one run.
type Options struct {
	// Grouped runs a grouped sort and fills Result.Groups.
	Grouped bool

	// SameTypeGrouping and DetectCycles override the manifest when set.
	SameTypeGrouping *bool
	DetectCycles     *bool

	// InterceptCycles collects cycles into Result.Cycles instead of failing.
	// Ignored when cycle detection is off.
	InterceptCycles bool

	// Encoding selects the sorter's internal representation.
	Encoding topsort.Encoding

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// resolved is Options after merging with the manifest.
type resolved struct {
	sameType  bool
	detect    bool
	intercept bool
}

func (o Options) resolve(m *manifest.Manifest) resolved {
	r := resolved{detect: true}
	if v := m.Options.SameTypeGrouping; v != nil {
		r.sameType = *v
	}
	if v := m.Options.DetectCycles; v != nil {
		r.detect = *v
	}
	if o.SameTypeGrouping != nil {
		r.sameType = *o.SameTypeGrouping
	}
	if o.DetectCycles != nil {
		r.detect = *o.DetectCycles
	}
	r.intercept = r.detect && o.InterceptCycles
	return r
}

func (r resolved) cycleMode() topsort.CycleMode {
	switch {
	case !r.detect:
		return topsort.CycleModePermissive
	case r.intercept:
		return topsort.CycleModeIntercept
	default:
		return topsort.CycleModeStrict
	}
}

func (r resolved) keyOpts(grouped bool) cache.SortKeyOpts {
	return cache.SortKeyOpts{
		Grouped:          grouped,
		SameTypeGrouping: grouped && r.sameType,
		CycleMode:        r.cycleMode().String(),
	}
}

// Result is the outcome of a run.
type Result struct {
	Order  []string        `json:"order"`
	Groups []topsort.Group `json:"groups,omitempty"`

	// Cycles holds the paths reported while intercepting cycles.
	Cycles [][]string `json:"cycles,omitempty"`

	ManifestHash string `json:"manifest_hash"`
	CacheHit     bool   `json:"cache_hit"`
	Stats        Stats  `json:"stats"`
}

// Stats describes the sorted input.
type Stats struct {
	Elements int           `json:"elements"`
	Edges    int           `json:"edges"`
	Groups   int           `json:"groups"`
	SortTime time.Duration `json:"sort_time_ns"`
}

// cachedResult is the part of a Result stored in the cache.
type cachedResult struct {
	Order  []string        `json:"order"`
	Groups []topsort.Group `json:"groups,omitempty"`
	Cycles [][]string      `json:"cycles,omitempty"`
	Edges  int             `json:"edges"`
}

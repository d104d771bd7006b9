package topsort

import (
	"fmt"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// CycleHandler receives the closed path of a cycle found during a pass.
// The slice is owned by the handler.
type CycleHandler func(path []string)

// CycleMode selects how a sort pass reacts to a cycle.
type CycleMode int

const (
	// CycleModeStrict aborts the pass with a *CircularDependencyError.
	CycleModeStrict CycleMode = iota
	// CycleModePermissive ignores the cycle and keeps sorting. The order of
	// the cyclic elements is unspecified.
	CycleModePermissive
	// CycleModeIntercept reports the cycle to a handler and keeps sorting.
	CycleModeIntercept
)

// String returns the mode name.
func (m CycleMode) String() string {
	switch m {
	case CycleModeStrict:
		return "strict"
	case CycleModePermissive:
		return "permissive"
	case CycleModeIntercept:
		return "intercept"
	default:
		return fmt.Sprintf("CycleMode(%d)", int(m))
	}
}

// CyclePolicy is the effective cycle handling of a sorter.
type CyclePolicy struct {
	Mode    CycleMode
	Handler CycleHandler // set only for CycleModeIntercept
}

// StrictCycles returns the default policy: any cycle fails the pass.
func StrictCycles() CyclePolicy { return CyclePolicy{Mode: CycleModeStrict} }

// IgnoreCycles returns a policy that silently accepts cycles.
func IgnoreCycles() CyclePolicy { return CyclePolicy{Mode: CycleModePermissive} }

// InterceptCycles returns a policy routing every cycle to h.
// A nil handler behaves like [StrictCycles].
func InterceptCycles(h CycleHandler) CyclePolicy {
	if h == nil {
		return StrictCycles()
	}
	return CyclePolicy{Mode: CycleModeIntercept, Handler: h}
}

// Encoding selects the internal representation of the emitted order.
// All encodings produce identical results.
type Encoding int

const (
	// EncodingSequence keeps ids in slices.
	EncodingSequence Encoding = iota
	// EncodingText keeps ids in null-delimited text buffers.
	EncodingText
)

// String returns the encoding name as accepted by [ParseEncoding].
func (e Encoding) String() string {
	switch e {
	case EncodingSequence:
		return "sequence"
	case EncodingText:
		return "text"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding parses "sequence" or "text". The empty string selects
// [EncodingSequence].
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "sequence":
		return EncodingSequence, nil
	case "text":
		return EncodingText, nil
	default:
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown encoding %q (use sequence or text)", s)
	}
}

// config is shared by Sorter and GroupedSorter. Cycle detection and the
// interceptor are kept apart so that the two setters stay independent, as
// callers expect: disabling detection wins over a registered interceptor.
type config struct {
	detectCycles bool
	interceptor  CycleHandler
	sameType     bool
	encoding     Encoding
	logger       *log.Logger
}

func newConfig(opts []Option) config {
	c := config{detectCycles: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *config) policy() CyclePolicy {
	if !c.detectCycles {
		return IgnoreCycles()
	}
	return InterceptCycles(c.interceptor)
}

// Option configures a sorter.
type Option func(*config)

// WithCycleDetection enables or disables cycle detection (default enabled).
func WithCycleDetection(enabled bool) Option {
	return func(c *config) { c.detectCycles = enabled }
}

// WithCircularInterceptor routes detected cycles to h instead of failing.
func WithCircularInterceptor(h CycleHandler) Option {
	return func(c *config) { c.interceptor = h }
}

// WithCyclePolicy sets detection and interceptor from a policy in one step.
func WithCyclePolicy(p CyclePolicy) Option {
	return func(c *config) {
		c.detectCycles = p.Mode != CycleModePermissive
		c.interceptor = nil
		if p.Mode == CycleModeIntercept {
			c.interceptor = p.Handler
		}
	}
}

// WithSameTypeExtraGrouping forces an element into a new group whenever one
// of its dependencies has the same type. Only grouped sorts use it.
func WithSameTypeExtraGrouping(enabled bool) Option {
	return func(c *config) { c.sameType = enabled }
}

// WithEncoding selects the emitter representation.
func WithEncoding(e Encoding) Option {
	return func(c *config) { c.encoding = e }
}

// WithLogger attaches a logger. Suppressed and intercepted cycles are
// logged at debug level. Nil disables logging.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

package topsort

import "github.com/charmbracelet/log"

// sink receives finished elements from the engine and decides where they go.
// place returns the group level the element landed in, or -1 for ungrouped
// output.
type sink interface {
	reset()
	groupLevel() int
	place(id, typ string, minLevel int) int
}

// engine runs one depth-first pass over a registry.
//
// The current root's ancestry is a stack of handles plus an onPath bitmap.
// Because every branch pops what it pushed, a sibling branch sees exactly
// the ancestors it would see with a per-branch copy of the path.
type engine struct {
	reg      *Registry
	out      sink
	policy   CyclePolicy
	sameType bool
	logger   *log.Logger

	path   []int
	onPath []bool
}

func newEngine(reg *Registry, out sink, cfg *config) *engine {
	return &engine{
		reg:      reg,
		out:      out,
		policy:   cfg.policy(),
		sameType: cfg.sameType,
		logger:   cfg.logger,
	}
}

// run resets the pass state and visits every element in insertion order.
// A failed pass leaves the scratch state undefined; the next run resets it.
func (e *engine) run() error {
	e.reg.resetPass()
	e.out.reset()
	e.path = e.path[:0]
	e.onPath = make([]bool, len(e.reg.nodes))

	for i := range e.reg.nodes {
		if _, err := e.visit(i); err != nil {
			return err
		}
	}
	return nil
}

// visit places element i after all of its dependencies and returns the
// group level it was placed in. Dependants never join a group below it.
func (e *engine) visit(i int) (int, error) {
	if e.onPath[i] {
		if err := e.cycle(i); err != nil {
			return -1, err
		}
	}

	n := &e.reg.nodes[i]
	if n.visited {
		return n.level, nil
	}
	n.visited = true

	e.path = append(e.path, i)
	e.onPath[i] = true

	minLevel := -1
	for _, dep := range n.deps {
		j, ok := e.reg.lookup(dep)
		if !ok {
			return -1, &ElementNotFoundError{Source: n.id, Target: dep}
		}
		level, err := e.visit(j)
		if err != nil {
			return -1, err
		}
		if level > minLevel {
			minLevel = level
		}
		if e.sameType && e.reg.nodes[j].typ == n.typ {
			minLevel = e.out.groupLevel()
		}
	}

	e.path = e.path[:len(e.path)-1]
	e.onPath[i] = false

	n.level = e.out.place(n.id, n.typ, minLevel)
	return n.level, nil
}

// cycle applies the cycle policy to a re-entry of element i.
func (e *engine) cycle(i int) error {
	if e.policy.Mode == CycleModePermissive {
		e.debug("ignoring circular dependency", i)
		return nil
	}

	path := e.cyclePath(i)
	if e.policy.Mode == CycleModeIntercept {
		e.debug("intercepted circular dependency", i)
		e.policy.Handler(path)
		return nil
	}
	return newCircularDependencyError(path)
}

// cyclePath returns the whole parents path of the current root followed by
// the re-entered element i.
func (e *engine) cyclePath(i int) []string {
	path := make([]string, 0, len(e.path)+1)
	for _, h := range e.path {
		path = append(path, e.reg.nodes[h].id)
	}
	return append(path, e.reg.nodes[i].id)
}

func (e *engine) debug(msg string, i int) {
	if e.logger == nil {
		return
	}
	e.logger.Debug(msg, "element", e.reg.nodes[i].id, "depth", len(e.path))
}

// emitterSink adapts an Emitter for ungrouped passes.
type emitterSink struct {
	Emitter
}

func (s emitterSink) reset()          { s.Reset() }
func (s emitterSink) groupLevel() int { return 0 }

func (s emitterSink) place(id, _ string, _ int) int {
	s.Emit(id)
	return -1
}

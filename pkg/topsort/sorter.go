package topsort

// Sorter computes a linear topological order of its registered elements.
//
// A Sorter is not safe for concurrent use: a pass mutates per-element
// scratch state. Sorters over distinct registries are independent.
type Sorter struct {
	reg     *Registry
	cfg     config
	emitter Emitter
}

// NewSorter creates a sorter with an empty registry.
func NewSorter(opts ...Option) *Sorter {
	return NewSorterFromRegistry(&Registry{}, opts...)
}

// NewSorterFromRegistry creates a sorter over an existing registry.
// The sorter takes ownership of reg.
func NewSorterFromRegistry(reg *Registry, opts ...Option) *Sorter {
	cfg := newConfig(opts)
	return &Sorter{reg: reg, cfg: cfg, emitter: NewEmitter(cfg.encoding)}
}

// Add registers an untyped element. See [Registry.Add].
func (s *Sorter) Add(id string, deps ...string) error {
	return s.reg.Add(id, "", deps...)
}

// Set registers elements in order. Types are kept but ignored by Sort.
func (s *Sorter) Set(elements ...Element) error {
	return s.reg.Set(elements...)
}

// Registry returns the sorter's registry.
func (s *Sorter) Registry() *Registry { return s.reg }

// Sort returns every element after all of its dependencies.
//
// Elements without an ordering constraint keep their registration order.
// Returns a *CircularDependencyError when strict cycle detection finds a
// cycle and an *ElementNotFoundError when a dependency is not registered.
func (s *Sorter) Sort() ([]string, error) {
	eng := newEngine(s.reg, emitterSink{s.emitter}, &s.cfg)
	if err := eng.run(); err != nil {
		return nil, err
	}
	return s.emitter.IDs(), nil
}

// SetThrowCircularDependency enables or disables cycle detection.
func (s *Sorter) SetThrowCircularDependency(enabled bool) { s.cfg.detectCycles = enabled }

// IsThrowCircularDependency reports whether cycle detection is enabled.
func (s *Sorter) IsThrowCircularDependency() bool { return s.cfg.detectCycles }

// SetCircularInterceptor routes cycles to h instead of failing the pass.
// A nil handler restores the failing behaviour.
func (s *Sorter) SetCircularInterceptor(h CycleHandler) { s.cfg.interceptor = h }

// CyclePolicy returns the effective cycle policy.
func (s *Sorter) CyclePolicy() CyclePolicy { return s.cfg.policy() }

// Encoding returns the emitter encoding.
func (s *Sorter) Encoding() Encoding { return s.cfg.encoding }

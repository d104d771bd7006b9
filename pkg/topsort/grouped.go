package topsort

// GroupedSorter computes a topological order in which elements of the same
// type are clustered into contiguous groups.
//
// Each finished element joins the newest existing group of its type whose
// level is not below the levels reached by its dependencies; otherwise it
// opens a new group at the end. The flattened group order is itself a valid
// topological order.
//
// A GroupedSorter is not safe for concurrent use.
type GroupedSorter struct {
	reg    *Registry
	cfg    config
	layout groupLayout
	done   bool
}

// NewGroupedSorter creates a grouped sorter with an empty registry.
func NewGroupedSorter(opts ...Option) *GroupedSorter {
	return NewGroupedSorterFromRegistry(&Registry{}, opts...)
}

// NewGroupedSorterFromRegistry creates a grouped sorter over an existing
// registry. The sorter takes ownership of reg.
func NewGroupedSorterFromRegistry(reg *Registry, opts ...Option) *GroupedSorter {
	cfg := newConfig(opts)
	return &GroupedSorter{reg: reg, cfg: cfg, layout: newGroupLayout(cfg.encoding)}
}

// Add registers an element of the given type. See [Registry.Add].
func (s *GroupedSorter) Add(id, typ string, deps ...string) error {
	return s.reg.Add(id, typ, deps...)
}

// Set registers elements in order.
func (s *GroupedSorter) Set(elements ...Element) error {
	return s.reg.Set(elements...)
}

// Registry returns the sorter's registry.
func (s *GroupedSorter) Registry() *Registry { return s.reg }

// Sort runs a grouped pass and returns the flattened order.
func (s *GroupedSorter) Sort() ([]string, error) {
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.layout.ids(), nil
}

// SortGrouped runs a grouped pass and returns the groups in position order.
func (s *GroupedSorter) SortGrouped() ([]Group, error) {
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.layout.groups(), nil
}

// Groups returns the groups of the last successful pass, or nil.
func (s *GroupedSorter) Groups() []Group {
	if !s.done {
		return nil
	}
	return s.layout.groups()
}

func (s *GroupedSorter) run() error {
	s.done = false
	eng := newEngine(s.reg, s.layout, &s.cfg)
	if err := eng.run(); err != nil {
		return err
	}
	s.done = true
	return nil
}

// SetThrowCircularDependency enables or disables cycle detection.
func (s *GroupedSorter) SetThrowCircularDependency(enabled bool) { s.cfg.detectCycles = enabled }

// IsThrowCircularDependency reports whether cycle detection is enabled.
func (s *GroupedSorter) IsThrowCircularDependency() bool { return s.cfg.detectCycles }

// SetCircularInterceptor routes cycles to h instead of failing the pass.
func (s *GroupedSorter) SetCircularInterceptor(h CycleHandler) { s.cfg.interceptor = h }

// SetSameTypeExtraGrouping toggles opening a new group for an element that
// depends on an element of its own type.
func (s *GroupedSorter) SetSameTypeExtraGrouping(enabled bool) { s.cfg.sameType = enabled }

// IsSameTypeExtraGrouping reports whether same-type extra grouping is on.
func (s *GroupedSorter) IsSameTypeExtraGrouping() bool { return s.cfg.sameType }

// CyclePolicy returns the effective cycle policy.
func (s *GroupedSorter) CyclePolicy() CyclePolicy { return s.cfg.policy() }

// Encoding returns the layout encoding.
func (s *GroupedSorter) Encoding() Encoding { return s.cfg.encoding }

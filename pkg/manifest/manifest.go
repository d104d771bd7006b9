package manifest

import (
	"github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Options  Options   `json:"options" toml:"options" yaml:"options"`
	Elements []Element `json:"elements" toml:"element" yaml:"elements"`
}

// Options are sort options stored alongside the elements. Nil fields are
// unset and leave the caller's defaults in place.
type Options struct {
	SameTypeGrouping *bool `json:"same_type_grouping,omitempty" toml:"same_type_grouping,omitempty" yaml:"same_type_grouping,omitempty"`
	DetectCycles     *bool `json:"detect_cycles,omitempty" toml:"detect_cycles,omitempty" yaml:"detect_cycles,omitempty"`
}

// Element is one registration.
type Element struct {
	ID      string   `json:"id" toml:"id" yaml:"id"`
	Type    string   `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Depends []string `json:"depends,omitempty" toml:"depends,omitempty" yaml:"depends,omitempty"`
}

// Adder registers typed elements. [topsort.Registry] and
// [topsort.GroupedSorter] implement it.
type Adder interface {
	Add(id, typ string, deps ...string) error
}

// Validate checks every id, type and dependency id.
func (m *Manifest) Validate() error {
	for i, e := range m.Elements {
		if err := errors.ValidateElementID(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "element %d", i)
		}
		if err := errors.ValidateElementType(e.Type); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "element %q", e.ID)
		}
		for _, dep := range e.Depends {
			if err := errors.ValidateElementID(dep); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency of %q", e.ID)
			}
		}
	}
	return nil
}

// Apply registers every element with a in manifest order.
func (m *Manifest) Apply(a Adder) error {
	for _, e := range m.Elements {
		if err := a.Add(e.ID, e.Type, e.Depends...); err != nil {
			return err
		}
	}
	return nil
}

// Registry builds a registry holding the manifest's elements.
func (m *Manifest) Registry() (*topsort.Registry, error) {
	r := &topsort.Registry{}
	if err := m.Apply(r); err != nil {
		return nil, err
	}
	return r, nil
}

// TopsortElements converts the elements for [topsort.Registry.Set].
func (m *Manifest) TopsortElements() []topsort.Element {
	out := make([]topsort.Element, len(m.Elements))
	for i, e := range m.Elements {
		out[i] = topsort.Element{ID: e.ID, Type: e.Type, Dependencies: e.Depends}
	}
	return out
}

// FromElements builds a manifest from registered elements.
func FromElements(elements []topsort.Element) *Manifest {
	m := &Manifest{Elements: make([]Element, len(elements))}
	for i, e := range elements {
		m.Elements[i] = Element{ID: e.ID, Type: e.Type, Depends: e.Dependencies}
	}
	return m
}

// Bool returns a pointer to b, for filling [Options].
func Bool(b bool) *bool { return &b }

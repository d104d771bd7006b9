package topsort

import (
	"slices"
	"strings"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Element is a named vertex of the dependency graph.
//
// Dependencies may name elements that are not registered yet; they are
// resolved when a sort pass reaches them. Duplicates and self references are
// accepted at registration time (a self reference always sorts as a cycle).
type Element struct {
	ID           string   // Unique identifier
	Type         string   // Group key, only read by grouped sorts
	Dependencies []string // Ids this element must follow, in declaration order
}

// node is the registry's storage for one element plus the per-pass
// scratch fields. Only the engine touches visited and level.
type node struct {
	id      string
	typ     string
	deps    []string
	visited bool
	level   int
}

// Registry is an insertion-ordered set of elements keyed by id.
//
// Elements are addressed internally by integer handle (their insertion
// index), so the traversal never holds pointers that a later registration
// could invalidate. Insertion order is the root order of every sort pass and
// decides the relative order of otherwise unconstrained elements.
//
// The zero value is ready to use. A Registry is not safe for concurrent use.
type Registry struct {
	nodes []node
	index map[string]int
}

// NewRegistry creates a registry holding the given elements.
// Elements are added with [Registry.Set] semantics.
func NewRegistry(elements ...Element) (*Registry, error) {
	r := &Registry{}
	if err := r.Set(elements...); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers an element or overwrites an existing one.
//
// Overwriting replaces type and dependencies but keeps the element's original
// insertion position. Any id is accepted except the empty string and ids
// containing a null byte, which the text encoding uses as its delimiter.
// Types are not restricted.
func (r *Registry) Add(id, typ string, deps ...string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}

	n := node{id: id, typ: typ, deps: slices.Clone(deps), level: -1}
	if i, ok := r.index[id]; ok {
		r.nodes[i] = n
		return nil
	}
	r.index[id] = len(r.nodes)
	r.nodes = append(r.nodes, n)
	return nil
}

// Set registers every element in order. It stops at the first invalid
// element; elements before it stay registered.
func (r *Registry) Set(elements ...Element) error {
	for _, e := range elements {
		if err := r.Add(e.ID, e.Type, e.Dependencies...); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the element registered under id.
func (r *Registry) Get(id string) (Element, bool) {
	i, ok := r.index[id]
	if !ok {
		return Element{}, false
	}
	return r.nodes[i].element(), true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Len returns the number of registered elements.
func (r *Registry) Len() int { return len(r.nodes) }

// Elements returns copies of all elements in insertion order.
func (r *Registry) Elements() []Element {
	out := make([]Element, len(r.nodes))
	for i := range r.nodes {
		out[i] = r.nodes[i].element()
	}
	return out
}

// EdgeCount returns the number of declared dependency edges, duplicates included.
func (r *Registry) EdgeCount() int {
	count := 0
	for i := range r.nodes {
		count += len(r.nodes[i].deps)
	}
	return count
}

func (n *node) element() Element {
	return Element{ID: n.id, Type: n.typ, Dependencies: slices.Clone(n.deps)}
}

// resetPass clears the scratch fields before a sort pass.
func (r *Registry) resetPass() {
	for i := range r.nodes {
		r.nodes[i].visited = false
		r.nodes[i].level = -1
	}
}

func (r *Registry) lookup(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

func checkID(id string) error {
	if id == "" {
		return apperrors.New(apperrors.ErrCodeInvalidElement, "element id cannot be empty")
	}
	if strings.IndexByte(id, 0) >= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidElement, "element id %q contains a null byte", id)
	}
	return nil
}

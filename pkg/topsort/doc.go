// Package topsort orders named elements so that every element comes after
// the elements it depends on.
//
// # Overview
//
// Elements are registered with an id, an optional type and a list of
// dependency ids. A sort pass walks the registry depth-first in insertion
// order and emits each element once all of its dependencies have been
// emitted. Insertion order breaks every tie, so the same registrations
// always yield the same order.
//
// # Basic Usage
//
//	s := topsort.NewSorter()
//	s.Add("brand1")
//	s.Add("car1", "brand1")
//	s.Add("car2", "brand2")
//	s.Add("brand2")
//	order, err := s.Sort() // [brand1 car1 brand2 car2]
//
// Dependencies may name elements registered later. A dependency that is
// still unregistered when the pass reaches it fails the pass with an
// [*ElementNotFoundError].
//
// # Cycles
//
// By default a cycle fails the pass with a [*CircularDependencyError] whose
// [CircularDependencyError.Path] lists the traversal path from the root down
// to the re-entered element, followed by that element again. A [CyclePolicy] relaxes this: [IgnoreCycles] keeps sorting and
// [InterceptCycles] reports each cycle to a handler and keeps sorting. In
// both relaxed modes the relative order of the cyclic elements is unspecified
// but every registered element appears exactly once.
//
// # Grouping
//
// [GroupedSorter] additionally clusters elements of the same type into
// contiguous [Group] bands while keeping the flattened order topologically
// valid. An element joins the newest group of its type that is not below any
// of its dependencies' groups, or opens a new group at the end. With
// [WithSameTypeExtraGrouping] an element that depends on an element of its
// own type always opens a new group.
//
// # Encodings
//
// Both sorters can collect their output either in slices
// ([EncodingSequence]) or in null-delimited text buffers ([EncodingText]).
// The choice affects allocation patterns only; results are identical. Ids
// therefore may not contain a null byte, which [Registry.Add] enforces.
//
// # Concurrency
//
// Sorters and registries are not safe for concurrent use. A pass mutates
// per-element scratch state, so independent sorts need independent
// registries.
package topsort

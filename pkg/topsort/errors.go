package topsort

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// CircularDependencyError reports a dependency cycle found during a sort pass.
//
// The path is the traversal path from the root of the failing pass down to
// the element that closed the cycle, followed by that element again: [a b c a]
// for a -> b -> c -> a, and [r a b a] when r depends on the cycle a -> b -> a.
// A self reference yields [a a].
type CircularDependencyError struct {
	path []string
}

func newCircularDependencyError(path []string) *CircularDependencyError {
	return &CircularDependencyError{path: slices.Clone(path)}
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	return "circular dependency found: " + strings.Join(e.path, "->")
}

// Path returns the closed cycle path, including the repeated element.
func (e *CircularDependencyError) Path() []string { return slices.Clone(e.path) }

// Nodes returns the path without the trailing repeat.
func (e *CircularDependencyError) Nodes() []string {
	return slices.Clone(e.path[:len(e.path)-1])
}

// Start returns the root of the traversal that hit the cycle.
func (e *CircularDependencyError) Start() string { return e.path[0] }

// End returns the last element before the repeat, i.e. the element whose
// dependency closed the cycle.
func (e *CircularDependencyError) End() string { return e.path[len(e.path)-2] }

// Code returns the error code for this error type.
func (e *CircularDependencyError) Code() apperrors.Code {
	return apperrors.ErrCodeCircularDependency
}

// ElementNotFoundError reports a dependency on an id that was never registered.
type ElementNotFoundError struct {
	Source string // Element declaring the dependency
	Target string // Missing dependency id
}

// Error implements the error interface.
func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("dependency `%s` not found, required by `%s`", e.Target, e.Source)
}

// Code returns the error code for this error type.
func (e *ElementNotFoundError) Code() apperrors.Code {
	return apperrors.ErrCodeElementNotFound
}

package grove

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotResolved is returned when a lookup is made before Resolve has
	// succeeded.
	ErrNotResolved = errors.New("context not resolved")

	// ErrAlreadyResolved is returned when a declaration is made, or Resolve is
	// called, after resolution has started.
	ErrAlreadyResolved = errors.New("context already resolved")

	// ErrInvalidConstructor is returned when a constructor or late-init method
	// does not have a supported signature.
	ErrInvalidConstructor = errors.New("invalid constructor")

	// ErrNoConstructor is returned when a type is declared for construction
	// but no constructor is known for it.
	ErrNoConstructor = errors.New("no constructor")

	// ErrAmbiguousConstructor is returned when a type has several
	// constructors and not exactly one of them is designated.
	ErrAmbiguousConstructor = errors.New("ambiguous constructor")

	// ErrAmbiguousInitializer is returned when a type exposes more than one
	// late-init method.
	ErrAmbiguousInitializer = errors.New("ambiguous late-init method")

	// ErrUnresolved is returned by Resolve when declarations are left that
	// could not be satisfied. The concrete error is an *UnresolvedError.
	ErrUnresolved = errors.New("unresolved dependencies")

	// ErrComponentNotFound is returned when no resolved component matches a
	// lookup.
	ErrComponentNotFound = errors.New("component not found")

	// ErrAmbiguousComponent is returned when more than one resolved component
	// matches a singular lookup.
	ErrAmbiguousComponent = errors.New("ambiguous component")
)

// UnresolvedEntry describes one declaration left pending when resolution
// reached its fixed point.
type UnresolvedEntry struct {
	Key Key
	// Initializer names the constructor or late-init method that is waiting.
	Initializer string
	// Missing lists the parameters that could not be matched.
	Missing []Param
}

// UnresolvedError is the aggregate diagnostic returned by [Context.Resolve].
type UnresolvedError struct {
	Entries []UnresolvedEntry
}

func (e *UnresolvedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d pending", ErrUnresolved, len(e.Entries))
	for _, entry := range e.Entries {
		fmt.Fprintf(&b, "\n  %s via %s", entry.Key, entry.Initializer)
		for _, p := range entry.Missing {
			fmt.Fprintf(&b, "\n    missing %s", p)
		}
	}
	return b.String()
}

func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved
}

package grove

import (
	"fmt"
	"reflect"
	"strings"
)

// Describer supplies the initializer metadata the resolver works from.
// [Registry] is the default implementation.
type Describer interface {
	// Constructor returns the designated constructor of t.
	Constructor(t reflect.Type) (*Initializer, error)

	// LateInit returns the late-init method of t, or nil if it has none.
	LateInit(t reflect.Type) (*Initializer, error)
}

type candidate struct {
	ini        *Initializer
	designated bool
}

// Registry is a [Describer] backed by explicitly registered constructors.
// Late-init methods are discovered by name prefix.
type Registry struct {
	constructors   map[reflect.Type][]candidate
	lateInitPrefix string
}

// DefaultLateInitPrefix is the method name prefix that marks late-init
// methods unless configured otherwise.
const DefaultLateInitPrefix = "LateInit"

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors:   make(map[reflect.Type][]candidate),
		lateInitPrefix: DefaultLateInitPrefix,
	}
}

// Register adds fn as a constructor of its result type. A type may have
// several constructors; exactly one of them must then be [Designated].
func (r *Registry) Register(fn any, opts ...Option) (*Initializer, error) {
	o := buildOptions(opts)
	ini, err := newConstructor(reflect.ValueOf(fn), o.paramQualifiers)
	if err != nil {
		return nil, err
	}
	r.constructors[ini.out] = append(r.constructors[ini.out], candidate{ini: ini, designated: o.designated})
	return ini, nil
}

func (r *Registry) Constructor(t reflect.Type) (*Initializer, error) {
	cands := r.constructors[t]
	switch len(cands) {
	case 0:
		return nil, fmt.Errorf("%w for %s", ErrNoConstructor, t)
	case 1:
		return cands[0].ini, nil
	}

	var chosen *Initializer
	for _, c := range cands {
		if !c.designated {
			continue
		}
		if chosen != nil {
			return nil, fmt.Errorf("%w: %s has more than one designated constructor", ErrAmbiguousConstructor, t)
		}
		chosen = c.ini
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s has %d constructors and none is designated", ErrAmbiguousConstructor, t, len(cands))
	}
	return chosen, nil
}

func (r *Registry) LateInit(t reflect.Type) (*Initializer, error) {
	if t.Kind() == reflect.Interface || r.lateInitPrefix == "" {
		return nil, nil
	}

	var found []reflect.Method
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if strings.HasPrefix(m.Name, r.lateInitPrefix) {
			found = append(found, m)
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return newLateInit(t, found[0])
	}

	names := make([]string, len(found))
	for i, m := range found {
		names[i] = m.Name
	}
	return nil, fmt.Errorf("%w: %s has %s", ErrAmbiguousInitializer, t, strings.Join(names, ", "))
}

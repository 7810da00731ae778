package grove

import (
	"fmt"
	"reflect"
	"sync"
)

// Catalog is a list of known components, each given by its constructor and
// declaration options. It lets packages announce their components from
// init functions and lets the application declare a filtered subset of them.
type Catalog struct {
	mu      sync.Mutex
	entries []catalogEntry
}

type catalogEntry struct {
	constructor any
	out         reflect.Type
	opts        []Option
}

// Add records a component. The constructor is validated immediately.
func (cat *Catalog) Add(constructor any, opts ...Option) error {
	ini, err := NewInitializer(constructor, opts...)
	if err != nil {
		return err
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	cat.entries = append(cat.entries, catalogEntry{constructor: constructor, out: ini.out, opts: opts})
	return nil
}

// Types returns the component type of every entry in the order they were
// added.
func (cat *Catalog) Types() []reflect.Type {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	out := make([]reflect.Type, len(cat.entries))
	for i, e := range cat.entries {
		out[i] = e.out
	}
	return out
}

func (cat *Catalog) snapshot() []catalogEntry {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return append([]catalogEntry(nil), cat.entries...)
}

var components Catalog

// RegisterComponent adds a component to the package-level catalog read by
// [Context.DeclareComponents]. It is meant to be called from init functions
// and panics on an invalid constructor.
func RegisterComponent(constructor any, opts ...Option) {
	if err := components.Add(constructor, opts...); err != nil {
		panic(fmt.Sprintf("grove: RegisterComponent: %v", err))
	}
}

// DeclareCatalog declares every catalog entry whose component type is
// accepted by filter. A nil filter accepts everything.
func (c *Context) DeclareCatalog(cat *Catalog, filter func(reflect.Type) bool) error {
	for _, e := range cat.snapshot() {
		if filter != nil && !filter(e.out) {
			continue
		}
		if err := c.Provide(e.constructor, e.opts...); err != nil {
			return err
		}
	}
	return nil
}

// DeclareComponents declares the entries of the package-level catalog that
// are accepted by filter.
func (c *Context) DeclareComponents(filter func(reflect.Type) bool) error {
	return c.DeclareCatalog(&components, filter)
}

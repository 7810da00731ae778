package grove

import (
	"fmt"
	"reflect"
)

// ---------------------------------------------------------------------------
// Context methods
// ---------------------------------------------------------------------------

// Get returns the single resolved component of a type assignable to t that
// was declared under qualifier q. It fails with [ErrAmbiguousComponent] when
// several components match, even though all of them were resolved.
func (c *Context) Get(t reflect.Type, q Qualifier) (reflect.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.phase != Resolved {
		return reflect.Value{}, fmt.Errorf("%w: context is %s", ErrNotResolved, c.phase)
	}

	found := c.store.match(t, q)
	switch found.len() {
	case 0:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrComponentNotFound, Key{Type: t, Qualifier: q})
	case 1:
		return found.values[0], nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %d components match %s", ErrAmbiguousComponent, found.len(), Key{Type: t, Qualifier: q})
	}
}

// GetAll returns every resolved component of a type assignable to t,
// whatever its qualifier. Synthesized multiplicity containers are not
// components and are never returned.
func (c *Context) GetAll(t reflect.Type) ([]reflect.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.phase != Resolved {
		return nil, fmt.Errorf("%w: context is %s", ErrNotResolved, c.phase)
	}

	return c.store.assignable(t, Unqualified, isMultiplicityKey).values, nil
}

// ComponentInfo summarizes the components stored under one key.
type ComponentInfo struct {
	Key   Key
	Count int
}

// Components lists every key that holds resolved components, in the order
// the first component of each key was resolved.
func (c *Context) Components() ([]ComponentInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.phase != Resolved {
		return nil, fmt.Errorf("%w: context is %s", ErrNotResolved, c.phase)
	}

	out := make([]ComponentInfo, 0, len(c.store.keys))
	for _, k := range c.store.keys {
		out = append(out, ComponentInfo{Key: k, Count: c.store.byKey[k].len()})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Get is a generic helper that looks up the unqualified component of type T.
// It is the recommended way to retrieve components:
//
//	house, err := grove.Get[*House](c)
func Get[T any](c *Context) (T, error) {
	return get[T](c, Unqualified)
}

// GetQualified is a generic helper that looks up the component of type T
// declared under qualifier name:
//
//	door, err := grove.GetQualified[*Door](c, "goldenDoor")
func GetQualified[T any](c *Context, name string) (T, error) {
	return get[T](c, Named(name))
}

func get[T any](c *Context, q Qualifier) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()

	val, err := c.Get(t, q)
	if err != nil {
		return zero, err
	}

	out, ok := val.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %s to %s", val.Type(), t)
	}
	return out, nil
}

// GetAll is a generic helper that returns every component assignable to T.
func GetAll[T any](c *Context) ([]T, error) {
	t := reflect.TypeFor[T]()

	vals, err := c.GetAll(t)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(vals))
	for _, v := range vals {
		item, ok := v.Interface().(T)
		if !ok {
			return nil, fmt.Errorf("cannot convert %s to %s", v.Type(), t)
		}
		out = append(out, item)
	}
	return out, nil
}

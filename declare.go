package grove

import (
	"errors"
	"fmt"
	"reflect"
)

// Declare requests a component of type t to be constructed with its
// designated constructor. Declarations accumulate: declaring the same type
// and qualifier twice yields two components.
//
// The constructor and late-init method are looked up immediately, so a type
// without a usable constructor fails here rather than in Resolve.
func (c *Context) Declare(t reflect.Type, opts ...Option) error {
	if t == nil {
		return errors.New("declared type cannot be nil")
	}
	o := buildOptions(opts)
	key := Key{Type: t, Qualifier: o.qualifier}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Declaring {
		return ErrAlreadyResolved
	}

	ctor, err := c.describer.Constructor(t)
	if err != nil {
		return fmt.Errorf("declaring %s: %w", key, err)
	}
	return c.declareConstructed(key, ctor)
}

// Provide declares a component built by constructor, which must be a
// function of the form func(deps...) T or func(deps...) (T, error). The
// constructor is used for this declaration only; it is not registered for
// other declarations of T.
func (c *Context) Provide(constructor any, opts ...Option) error {
	o := buildOptions(opts)
	ctor, err := newConstructor(reflect.ValueOf(constructor), o.paramQualifiers)
	if err != nil {
		return err
	}
	key := Key{Type: ctor.out, Qualifier: o.qualifier}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Declaring {
		return ErrAlreadyResolved
	}
	return c.declareConstructed(key, ctor)
}

// declareConstructed must be called with c.mu held.
func (c *Context) declareConstructed(key Key, ctor *Initializer) error {
	if ctor.out == nil || !ctor.out.AssignableTo(key.Type) {
		return fmt.Errorf("declaring %s: %w: %s does not produce %s", key, ErrInvalidConstructor, ctor.name, key.Type)
	}

	var late *Initializer
	if ctor.out.Kind() != reflect.Interface {
		var err error
		if late, err = c.describer.LateInit(ctor.out); err != nil {
			return fmt.Errorf("declaring %s: %w", key, err)
		}
	}

	c.pending = append(c.pending, newPendingEntry(key, reflect.Value{}, ctor, late))
	c.log.Debug("component declared", "key", key, "constructor", ctor.name, "late_init", late != nil)
	return nil
}

// Supply declares instance as a component of type t. The instance is used
// as is; if its type has a late-init method, the method is called once its
// parameters resolve.
func (c *Context) Supply(t reflect.Type, instance any, opts ...Option) error {
	if t == nil {
		return errors.New("declared type cannot be nil")
	}
	o := buildOptions(opts)
	key := Key{Type: t, Qualifier: o.qualifier}

	v := reflect.ValueOf(instance)
	if isNil(v) {
		return fmt.Errorf("declaring %s: instance is nil", key)
	}
	if !v.Type().AssignableTo(t) {
		return fmt.Errorf("declaring %s: instance of type %s is not assignable", key, v.Type())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Declaring {
		return ErrAlreadyResolved
	}

	late, err := c.describer.LateInit(v.Type())
	if err != nil {
		return fmt.Errorf("declaring %s: %w", key, err)
	}

	c.pending = append(c.pending, newPendingEntry(key, v, late))
	c.log.Debug("component supplied", "key", key, "late_init", late != nil)
	return nil
}

// Constructor registers fn as a constructor of its result type with the
// default describer. Mark it [Designated] when the type has several
// constructors.
func (c *Context) Constructor(fn any, opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Declaring {
		return ErrAlreadyResolved
	}
	_, err := c.registry.Register(fn, opts...)
	return err
}

// FactoryFunc builds a component of type t from the resolved arguments of
// t's constructor, in parameter order.
type FactoryFunc func(t reflect.Type, args []any) (any, error)

type factory struct {
	typ reflect.Type
	fn  FactoryFunc
}

// Factory routes construction of every declared type assignable to t
// through fn instead of calling the constructor. A factory registered for
// the exact declared type wins over one registered for a supertype; among
// supertypes the first registered wins.
func (c *Context) Factory(t reflect.Type, fn FactoryFunc) error {
	if t == nil || fn == nil {
		return errors.New("factory type and function cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Declaring {
		return ErrAlreadyResolved
	}
	c.factories = append(c.factories, factory{typ: t, fn: fn})
	return nil
}

func (c *Context) factoryFor(t reflect.Type) FactoryFunc {
	var super FactoryFunc
	for _, f := range c.factories {
		if f.typ == t {
			return f.fn
		}
		if super == nil && t.AssignableTo(f.typ) {
			super = f.fn
		}
	}
	return super
}

// construct runs a constructor stage, through a factory when one applies.
func (c *Context) construct(key Key, ctor *Initializer, values []reflect.Value) (reflect.Value, error) {
	fn := c.factoryFor(key.Type)
	if fn == nil {
		return ctor.construct(values)
	}

	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v.Interface()
	}
	out, err := fn(key.Type, args)
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(out)
	if !v.IsValid() {
		return reflect.Value{}, errors.New("factory returned nil")
	}
	// A late-init stage that follows is bound to the constructor's result
	// type, which is at least as narrow as the key type.
	if !v.Type().AssignableTo(ctor.out) {
		return reflect.Value{}, fmt.Errorf("factory returned %s, not assignable to %s", v.Type(), ctor.out)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Declare is a generic helper that declares a component of type T:
//
//	grove.Declare[*House](c)
func Declare[T any](c *Context, opts ...Option) error {
	return c.Declare(reflect.TypeFor[T](), opts...)
}

// Supply is a generic helper that declares instance as a component of type T:
//
//	grove.Supply(c, &Door{Locked: false}, grove.Qualified("goldenDoor"))
func Supply[T any](c *Context, instance T, opts ...Option) error {
	return c.Supply(reflect.TypeFor[T](), instance, opts...)
}

// DeclareFactory is a generic helper for [Context.Factory].
func DeclareFactory[T any](c *Context, fn FactoryFunc) error {
	return c.Factory(reflect.TypeFor[T](), fn)
}

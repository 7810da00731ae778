package grove

import (
	"fmt"
	"reflect"
)

// Qualifier is an opaque label that tells apart several components of the
// same type. The zero value is [Unqualified]; use [Named] to build a label.
type Qualifier struct {
	name  string
	named bool
}

// Unqualified is the qualifier of components declared without a name.
var Unqualified = Qualifier{}

// Named returns the qualifier labelled name. Named("") is a label of its own
// and does not match Unqualified.
func Named(name string) Qualifier {
	return Qualifier{name: name, named: true}
}

// Name returns the label and whether the qualifier carries one.
func (q Qualifier) Name() (string, bool) {
	return q.name, q.named
}

// IsZero reports whether q is Unqualified.
func (q Qualifier) IsZero() bool {
	return !q.named
}

func (q Qualifier) String() string {
	if !q.named {
		return "<unqualified>"
	}
	return fmt.Sprintf("%q", q.name)
}

// Key identifies a component by its declared type and qualifier. Several
// components may share a key.
type Key struct {
	Type      reflect.Type
	Qualifier Qualifier
}

func (k Key) String() string {
	if k.Qualifier.IsZero() {
		return k.Type.String()
	}
	return fmt.Sprintf("%s[%s]", k.Type, k.Qualifier.name)
}

// matches reports whether a component stored under k satisfies a request for
// type t with qualifier q.
func (k Key) matches(t reflect.Type, q Qualifier) bool {
	return k.Qualifier == q && k.Type.AssignableTo(t)
}

// Param describes one injectable parameter of an initializer.
type Param struct {
	Type      reflect.Type
	Qualifier Qualifier
}

func (p Param) String() string {
	return Key(p).String()
}

// identity returns a map key that is equal for two values only when they are
// the same instance. Only non-nil pointers to sized types, maps and channels
// carry an identity; any other value returns ok == false and is never
// deduplicated, even when it compares equal to another one.
func identity(v reflect.Value) (id any, ok bool) {
	switch v.Kind() {
	case reflect.Pointer:
		// Distinct zero-size allocations may share an address.
		if v.IsNil() || v.Type().Elem().Size() == 0 {
			return nil, false
		}
	case reflect.Map, reflect.Chan:
		if v.IsNil() {
			return nil, false
		}
	case reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
		return identity(v.Elem())
	default:
		return nil, false
	}
	return struct {
		t reflect.Type
		p uintptr
	}{v.Type(), v.Pointer()}, true
}

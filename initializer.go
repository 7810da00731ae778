package grove

import (
	"fmt"
	"reflect"
	"runtime"
)

// In can be embedded in a struct to use it as a parameter struct: every
// other exported field becomes one injected parameter. A field tagged
// `qualifier:"name"` is qualified with name.
//
//	type palaceDeps struct {
//		grove.In
//		Door *Door `qualifier:"goldenDoor"`
//	}
//
//	func NewPalace(deps palaceDeps) *Palace
type In struct{}

var (
	inType    = reflect.TypeFor[In]()
	errorType = reflect.TypeFor[error]()
)

// binding maps one function argument onto the flat parameter list.
type binding struct {
	typ reflect.Type
	// first is the index of the argument's first parameter.
	first int
	// fields holds the struct field indexes of a parameter struct, nil for a
	// plain argument.
	fields []int
}

// Initializer describes a constructor or late-init method: the ordered
// parameters it needs and how to call it once they are resolved.
type Initializer struct {
	name     string
	fn       reflect.Value
	params   []Param
	bindings []binding
	// method initializers take the instance as their first argument.
	method  bool
	out     reflect.Type
	withErr bool
}

// NewInitializer builds an initializer for the constructor fn, which must be
// a function of the form func(deps...) T or func(deps...) (T, error). It is
// meant for custom [Describer] implementations.
func NewInitializer(fn any, opts ...Option) (*Initializer, error) {
	o := buildOptions(opts)
	return newConstructor(reflect.ValueOf(fn), o.paramQualifiers)
}

func newConstructor(fn reflect.Value, qualifiers []string) (*Initializer, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: constructor must be a function", ErrInvalidConstructor)
	}
	if fn.IsNil() {
		return nil, fmt.Errorf("%w: constructor is nil", ErrInvalidConstructor)
	}

	typ := fn.Type()
	if typ.IsVariadic() {
		return nil, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return nil, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 2 && typ.Out(1) != errorType {
		return nil, fmt.Errorf("%w: second return value of %s must be error", ErrInvalidConstructor, typ)
	}
	if typ.Out(0) == errorType {
		return nil, fmt.Errorf("%w: %s returns only an error", ErrInvalidConstructor, typ)
	}

	ini := &Initializer{
		name:    funcName(fn),
		fn:      fn,
		out:     typ.Out(0),
		withErr: typ.NumOut() == 2,
	}
	if err := ini.bind(typ, 0, qualifiers); err != nil {
		return nil, err
	}
	return ini, nil
}

// newLateInit builds an initializer for the method m of type t.
func newLateInit(t reflect.Type, m reflect.Method) (*Initializer, error) {
	typ := m.Type
	name := fmt.Sprintf("(%s).%s", t, m.Name)
	switch {
	case typ.IsVariadic():
		return nil, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, name)
	case typ.NumOut() > 1, typ.NumOut() == 1 && typ.Out(0) != errorType:
		return nil, fmt.Errorf("%w: %s must return nothing or error", ErrInvalidConstructor, name)
	}

	ini := &Initializer{
		name:    name,
		fn:      m.Func,
		method:  true,
		withErr: typ.NumOut() == 1,
	}
	// Input 0 is the receiver.
	if err := ini.bind(typ, 1, nil); err != nil {
		return nil, err
	}
	return ini, nil
}

func (ini *Initializer) bind(typ reflect.Type, from int, qualifiers []string) error {
	for i := from; i < typ.NumIn(); i++ {
		arg := typ.In(i)
		b := binding{typ: arg, first: len(ini.params)}

		if isParamStruct(arg) {
			for f := 0; f < arg.NumField(); f++ {
				field := arg.Field(f)
				if field.Anonymous && field.Type == inType {
					continue
				}
				if !field.IsExported() {
					return fmt.Errorf("%w: %s: parameter struct %s has unexported field %s",
						ErrInvalidConstructor, ini.name, arg, field.Name)
				}
				q := Unqualified
				if name, ok := field.Tag.Lookup("qualifier"); ok {
					q = Named(name)
				}
				b.fields = append(b.fields, f)
				ini.params = append(ini.params, Param{Type: field.Type, Qualifier: q})
			}
			ini.bindings = append(ini.bindings, b)
			continue
		}

		q := Unqualified
		if pos := i - from; pos < len(qualifiers) && qualifiers[pos] != "" {
			q = Named(qualifiers[pos])
		}
		ini.params = append(ini.params, Param{Type: arg, Qualifier: q})
		ini.bindings = append(ini.bindings, b)
	}
	return nil
}

func isParamStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == inType {
			return true
		}
	}
	return false
}

// Name returns a human-readable name of the function or method.
func (ini *Initializer) Name() string {
	return ini.name
}

// Params returns the ordered parameters the initializer needs.
func (ini *Initializer) Params() []Param {
	out := make([]Param, len(ini.params))
	copy(out, ini.params)
	return out
}

// Out returns the constructor's result type, or nil for a late-init method.
func (ini *Initializer) Out() reflect.Type {
	return ini.out
}

// args assembles call arguments from the resolved parameter values.
func (ini *Initializer) args(values []reflect.Value) []reflect.Value {
	args := make([]reflect.Value, len(ini.bindings))
	for i, b := range ini.bindings {
		if b.fields == nil {
			args[i] = values[b.first]
			continue
		}
		s := reflect.New(b.typ).Elem()
		for j, f := range b.fields {
			s.Field(f).Set(values[b.first+j])
		}
		args[i] = s
	}
	return args
}

// construct calls a constructor with the resolved parameter values.
func (ini *Initializer) construct(values []reflect.Value) (reflect.Value, error) {
	results := ini.fn.Call(ini.args(values))
	if ini.withErr && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}
	return results[0], nil
}

// apply calls a late-init method on instance with the resolved parameter
// values.
func (ini *Initializer) apply(instance reflect.Value, values []reflect.Value) error {
	args := append([]reflect.Value{instance}, ini.args(values)...)
	results := ini.fn.Call(args)
	if ini.withErr && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}


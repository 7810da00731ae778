package grove

import (
	"fmt"
	"reflect"
)

// slot is one parameter of an initializer together with its resolution
// progress. A resolved slot is never attempted again.
type slot struct {
	param    Param
	resolved bool
	value    reflect.Value
}

// stage is one initializer call a pending entry has to make: the
// constructor, or the late-init method.
type stage struct {
	ini   *Initializer
	slots []slot
	open  int
}

func newStage(ini *Initializer) *stage {
	st := &stage{ini: ini, slots: make([]slot, len(ini.params)), open: len(ini.params)}
	for i, p := range ini.params {
		st.slots[i].param = p
	}
	return st
}

// fill attempts every open slot and reports whether none is left.
func (st *stage) fill(resolve resolverFunc) bool {
	for i := range st.slots {
		s := &st.slots[i]
		if s.resolved {
			continue
		}
		if v, ok := resolve(s.param); ok {
			s.value = v
			s.resolved = true
			st.open--
		}
	}
	return st.open == 0
}

func (st *stage) values() []reflect.Value {
	out := make([]reflect.Value, len(st.slots))
	for i, s := range st.slots {
		out[i] = s.value
	}
	return out
}

func (st *stage) missing() []Param {
	var out []Param
	for _, s := range st.slots {
		if !s.resolved {
			out = append(out, s.param)
		}
	}
	return out
}

// resolverFunc looks up the value for one parameter. It reports false when
// the parameter cannot be satisfied yet.
type resolverFunc func(p Param) (reflect.Value, bool)

// constructFunc invokes a constructor stage for the component stored under
// key.
type constructFunc func(key Key, ini *Initializer, values []reflect.Value) (reflect.Value, error)

// pendingEntry tracks one declaration until it has produced its component.
// Its stages run in order and each stage's initializer is invoked exactly
// once.
type pendingEntry struct {
	key      Key
	instance reflect.Value
	stages   []*stage
	next     int
	consumed bool
}

func newPendingEntry(key Key, instance reflect.Value, inits ...*Initializer) *pendingEntry {
	e := &pendingEntry{key: key, instance: instance}
	for _, ini := range inits {
		if ini != nil {
			e.stages = append(e.stages, newStage(ini))
		}
	}
	return e
}

// attempt advances the entry as far as the currently resolvable parameters
// allow. It returns the finished component and true once every stage has
// run. Calling attempt on a consumed entry panics.
func (e *pendingEntry) attempt(resolve resolverFunc, construct constructFunc) (reflect.Value, bool, error) {
	if e.consumed {
		panic(fmt.Sprintf("grove: pending entry %s attempted after it was resolved", e.key))
	}

	for e.next < len(e.stages) {
		st := e.stages[e.next]
		if !st.fill(resolve) {
			return reflect.Value{}, false, nil
		}

		if st.ini.method {
			if err := st.ini.apply(e.instance, st.values()); err != nil {
				return reflect.Value{}, false, fmt.Errorf("%s: %w", st.ini.name, err)
			}
		} else {
			v, err := construct(e.key, st.ini, st.values())
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("%s: %w", st.ini.name, err)
			}
			if isNil(v) {
				return reflect.Value{}, false, fmt.Errorf("%s returned nil", st.ini.name)
			}
			e.instance = v
		}
		e.next++
	}

	e.consumed = true
	return e.instance, true, nil
}

// waiting returns the initializer the entry is blocked on and its
// unresolved parameters.
func (e *pendingEntry) waiting() (string, []Param) {
	if e.next >= len(e.stages) {
		return "", nil
	}
	st := e.stages[e.next]
	return st.ini.name, st.missing()
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

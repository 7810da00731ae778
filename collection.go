package grove

import (
	"iter"
	"reflect"
	"slices"
)

// All is a multiplicity container. A parameter of type All[T] receives every
// resolved component assignable to T. Once a constructor or late-init method
// receives it, the collection is complete: it is only handed out after every
// declaration that could contribute has been resolved.
//
// A qualified All[T] parameter only collects components declared under that
// qualifier; an unqualified one collects all of them regardless of
// qualifier.
type All[T any] struct {
	items []T
}

// Items returns a copy of the collected components in resolution order.
func (a All[T]) Items() []T {
	return slices.Clone(a.items)
}

// Len returns the number of collected components.
func (a All[T]) Len() int {
	return len(a.items)
}

// Each iterates over the collected components.
func (a All[T]) Each() iter.Seq[T] {
	return slices.Values(a.items)
}

func (All[T]) contentType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (All[T]) with(values []reflect.Value) reflect.Value {
	items := make([]T, len(values))
	for i, v := range values {
		items[i] = v.Interface().(T)
	}
	return reflect.ValueOf(All[T]{items: items})
}

// multiplicity is implemented by every instantiation of All.
type multiplicity interface {
	contentType() reflect.Type
	with(values []reflect.Value) reflect.Value
}

var multiplicityType = reflect.TypeFor[multiplicity]()

// asMultiplicity reports whether t is a multiplicity container type.
func asMultiplicity(t reflect.Type) (multiplicity, bool) {
	if t.Kind() != reflect.Struct || !t.Implements(multiplicityType) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(multiplicity), true
}

func isMultiplicityKey(k Key) bool {
	_, ok := asMultiplicity(k.Type)
	return ok
}

type collectionKey struct {
	typ       reflect.Type
	qualifier Qualifier
}

// collection is a memoized multiplicity container. The container value is
// rebuilt only when new members show up.
type collection struct {
	size  int
	value reflect.Value
}

// synthesizer builds and caches multiplicity containers.
type synthesizer struct {
	cache map[collectionKey]*collection
}

func newSynthesizer() *synthesizer {
	return &synthesizer{cache: make(map[collectionKey]*collection)}
}

// synthesize returns the container of type t for qualifier q. It refuses when
// t is not a container type or when blocked reports that a pending
// declaration could still contribute to the content type.
func (s *synthesizer) synthesize(t reflect.Type, q Qualifier, store *componentStore, blocked func(content reflect.Type) bool) (reflect.Value, bool) {
	m, ok := asMultiplicity(t)
	if !ok {
		return reflect.Value{}, false
	}
	content := m.contentType()
	if blocked(content) {
		return reflect.Value{}, false
	}

	key := collectionKey{typ: t, qualifier: q}
	col, ok := s.cache[key]
	if !ok {
		col = &collection{}
		s.cache[key] = col
	}

	// The store only grows, so a larger match means new members.
	members := store.assignable(content, q, isMultiplicityKey)
	if members.len() > col.size || !col.value.IsValid() {
		col.size = members.len()
		col.value = m.with(members.values)
	}
	return col.value, true
}

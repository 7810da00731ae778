package grove

import "reflect"

// instanceSet is an ordered set of component instances, deduplicated by
// identity.
type instanceSet struct {
	values []reflect.Value
	seen   map[any]struct{}
}

// add appends v unless the same instance is already present. It reports
// whether the set grew.
func (s *instanceSet) add(v reflect.Value) bool {
	if id, ok := identity(v); ok {
		if _, dup := s.seen[id]; dup {
			return false
		}
		if s.seen == nil {
			s.seen = make(map[any]struct{})
		}
		s.seen[id] = struct{}{}
	}
	s.values = append(s.values, v)
	return true
}

func (s *instanceSet) len() int {
	return len(s.values)
}

// componentStore holds resolved components by key. Keys keep the order in
// which their first component was stored.
type componentStore struct {
	keys  []Key
	byKey map[Key]*instanceSet
}

func newComponentStore() *componentStore {
	return &componentStore{byKey: make(map[Key]*instanceSet)}
}

func (s *componentStore) put(k Key, v reflect.Value) {
	set, ok := s.byKey[k]
	if !ok {
		set = &instanceSet{}
		s.byKey[k] = set
		s.keys = append(s.keys, k)
	}
	set.add(v)
}

// match collects every stored instance whose key satisfies (t, q).
func (s *componentStore) match(t reflect.Type, q Qualifier) *instanceSet {
	out := &instanceSet{}
	for _, k := range s.keys {
		if !k.matches(t, q) {
			continue
		}
		for _, v := range s.byKey[k].values {
			out.add(v)
		}
	}
	return out
}

// assignable collects every stored instance whose key type is assignable to
// t. An Unqualified q accepts any qualifier. Keys accepted by skip are
// ignored; a nil skip keeps everything.
func (s *componentStore) assignable(t reflect.Type, q Qualifier, skip func(Key) bool) *instanceSet {
	out := &instanceSet{}
	for _, k := range s.keys {
		if !k.Type.AssignableTo(t) {
			continue
		}
		if !q.IsZero() && k.Qualifier != q {
			continue
		}
		if skip != nil && skip(k) {
			continue
		}
		for _, v := range s.byKey[k].values {
			out.add(v)
		}
	}
	return out
}

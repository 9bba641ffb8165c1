package sqlir

import "iter"

// Annotation is a named, opaque metadata fact attached to a node.
// Values are opaque to the IR - only consumers interpret them.
type Annotation struct {
	Name  string
	Value any
}

// AnnotationSet is an ordered, duplicate-free collection of annotations.
//
// Sets are immutable: Add returns a new set, sharing nothing mutable
// with the receiver. A nil *AnnotationSet is a valid empty set, so
// nodes carry nil until the first annotation is attached.
//
// Order is insertion order. It is semantically irrelevant (annotations
// never participate in node equality) but load-bearing for
// deterministic printing.
type AnnotationSet struct {
	items []Annotation
	index map[string]int
}

// NewAnnotationSet creates a set from the given annotations.
// Returns a DuplicateAnnotationError if two annotations share a name.
func NewAnnotationSet(anns ...Annotation) (*AnnotationSet, error) {
	s := &AnnotationSet{
		items: make([]Annotation, 0, len(anns)),
		index: make(map[string]int, len(anns)),
	}
	for _, a := range anns {
		if _, dup := s.index[a.Name]; dup {
			return nil, &DuplicateAnnotationError{Name: a.Name}
		}
		s.index[a.Name] = len(s.items)
		s.items = append(s.items, a)
	}
	return s, nil
}

// Add returns a new set with the annotation appended.
// Fails with a DuplicateAnnotationError if name is already present;
// the existing value is never overwritten.
func (s *AnnotationSet) Add(name string, value any) (*AnnotationSet, error) {
	if _, ok := s.Get(name); ok {
		return nil, &DuplicateAnnotationError{Name: name}
	}

	n := s.Len()
	next := &AnnotationSet{
		items: make([]Annotation, n, n+1),
		index: make(map[string]int, n+1),
	}
	if s != nil {
		copy(next.items, s.items)
		for k, v := range s.index {
			next.index[k] = v
		}
	}
	next.index[name] = len(next.items)
	next.items = append(next.items, Annotation{Name: name, Value: value})
	return next, nil
}

// Get returns the value for name, or false if absent.
func (s *AnnotationSet) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.items[i].Value, true
}

// Len returns the number of annotations in the set.
func (s *AnnotationSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a restartable sequence of (name, value) pairs in
// insertion order.
func (s *AnnotationSet) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if s == nil {
			return
		}
		for _, a := range s.items {
			if !yield(a.Name, a.Value) {
				return
			}
		}
	}
}

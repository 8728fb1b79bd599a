// Package collections holds small generic containers used across the driver.
package collections

// Set is an unordered collection of unique values.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](values []T) Set[T] {
	s := make(Set[T], len(values))
	s.AddAll(values)
	return s
}

func (s Set[T]) Add(value T) {
	s[value] = struct{}{}
}

func (s Set[T]) AddAll(values []T) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

func (s Set[T]) RemoveAll(values []T) {
	for _, v := range values {
		delete(s, v)
	}
}

func (s Set[T]) Contains(value T) bool {
	_, ok := s[value]
	return ok
}

func (s Set[T]) Copy() Set[T] {
	result := make(Set[T], len(s))
	for v := range s {
		result[v] = struct{}{}
	}
	return result
}

func (s Set[T]) Values() []T {
	result := make([]T, 0, len(s))
	for v := range s {
		result = append(result, v)
	}
	return result
}

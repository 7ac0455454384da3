package ecs

import "iter"

// SparseSet packs values keyed by Entity contiguously and finds them in O(1)
// through a sparse array indexed by Entity.Index.
//
// The dense arrays are allocated up front, so a pointer returned by Get stays
// valid until the next Remove on the same set (a removal moves the last
// element into the freed slot).
type SparseSet[T any] struct {
	values []T
	keys   []Entity
	sparse []int32
	count  int
}

// NewSparseSet creates a set holding at most capacity values with key indices
// in [0, maxIndex).
func NewSparseSet[T any](capacity, maxIndex int) *SparseSet[T] {
	if capacity > maxIndex {
		capacity = maxIndex
	}
	return &SparseSet[T]{
		values: make([]T, capacity),
		keys:   make([]Entity, capacity),
		sparse: make([]int32, maxIndex),
	}
}

func (s *SparseSet[T]) checkKey(key Entity) {
	if int(key.Index()) >= len(s.sparse) {
		invariant("sparse set key %s out of range %d", key, len(s.sparse))
	}
}

// Add stores value under key, overwriting in place if key is already present.
func (s *SparseSet[T]) Add(key Entity, value T) {
	s.checkKey(key)

	if pos := s.IndexOf(key); pos >= 0 {
		s.values[pos] = value
		return
	}

	if s.count == len(s.values) {
		invariant("sparse set full (capacity %d)", len(s.values))
	}

	s.keys[s.count] = key
	s.values[s.count] = value
	s.sparse[key.Index()] = int32(s.count)
	s.count++
}

// Remove deletes key's value by moving the last element into its slot.
// Removing an absent key does nothing.
func (s *SparseSet[T]) Remove(key Entity) {
	pos := s.IndexOf(key)
	if pos < 0 {
		return
	}

	last := s.count - 1
	lastKey := s.keys[last]

	s.keys[pos] = lastKey
	s.values[pos] = s.values[last]
	s.sparse[lastKey.Index()] = int32(pos)

	var zero T
	s.values[last] = zero
	s.count--
}

// IndexOf returns the dense position of key, or -1 if absent.
func (s *SparseSet[T]) IndexOf(key Entity) int {
	s.checkKey(key)

	pos := int(s.sparse[key.Index()])
	if pos < s.count && s.keys[pos] == key {
		return pos
	}
	return -1
}

// Contains reports whether key has a value.
func (s *SparseSet[T]) Contains(key Entity) bool {
	return s.IndexOf(key) >= 0
}

// Get returns a pointer to key's value.
func (s *SparseSet[T]) Get(key Entity) (*T, bool) {
	pos := s.IndexOf(key)
	if pos < 0 {
		return nil, false
	}
	return &s.values[pos], true
}

// Values returns a live view of the packed values.
// The view must not be held across a Remove on this set.
func (s *SparseSet[T]) Values() []T {
	return s.values[:s.count]
}

// Keys returns a live view of the packed keys, parallel to Values.
func (s *SparseSet[T]) Keys() []Entity {
	return s.keys[:s.count]
}

// All iterates keys and pointers to their values in dense order.
func (s *SparseSet[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := 0; i < s.count; i++ {
			if !yield(s.keys[i], &s.values[i]) {
				return
			}
		}
	}
}

// Len returns the number of stored values.
func (s *SparseSet[T]) Len() int {
	return s.count
}

// Cap returns the maximum number of values.
func (s *SparseSet[T]) Cap() int {
	return len(s.values)
}

// Clear forgets every value without releasing the backing arrays.
func (s *SparseSet[T]) Clear() {
	clear(s.values[:s.count])
	s.count = 0
}

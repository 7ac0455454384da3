package ecs

import "reflect"

// componentStorage is the type-erased view of a SparseSet the World keeps per slot.
type componentStorage interface {
	setAny(key Entity, item any)
	getAny(key Entity) any
	Remove(key Entity)
	Contains(key Entity) bool
	Keys() []Entity
	Len() int
	Cap() int
	Clear()
}

// setAny accepts either T or *T, like the typed Add.
func (s *SparseSet[T]) setAny(key Entity, item any) {
	switch v := item.(type) {
	case T:
		s.Add(key, v)
	case *T:
		s.Add(key, *v)
	default:
		invariant("component of type %T stored in %s storage", item, reflect.TypeFor[T]())
	}
}

// getAny returns *T or nil.
func (s *SparseSet[T]) getAny(key Entity) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	return nil
}

package ecs

import (
	"iter"
	"reflect"
)

// storageOf returns the World's storage for T, creating it on first use.
func storageOf[T any](w *World) *SparseSet[T] {
	return w.storage(infoOf[T](w.registry)).(*SparseSet[T])
}

// storageAt returns the storage of an already resolved slot.
func storageAt[T any](w *World, slot ComponentType) *SparseSet[T] {
	return w.storage(w.registry.entries[slot]).(*SparseSet[T])
}

// unpackAt returns e's component in slot, which must be present.
func unpackAt[T any](w *World, slot ComponentType, e Entity) *T {
	v, ok := storageAt[T](w, slot).Get(e)
	if !ok {
		invariant("entity %s has no %s", e, reflect.TypeFor[T]())
	}
	return v
}

// AddComponent adds component to e.
//
// If e already carries a T, a warning is logged and the old instance is
// removed first, so on-remove systems see the old value and on-add systems see
// the new one. Use SetComponent to overwrite without the remove/add cycle.
func AddComponent[T any](w *World, e Entity, component T) {
	info := infoOf[T](w.registry)
	w.replaceDuplicate(e, info)
	setComponent(w, e, info, component)
}

// SetComponent writes component to e, adding it if e does not carry a T yet.
//
// A new component updates e's mask and system membership and fires the
// on-add systems tagged for T; an existing one is overwritten in place and
// fires the on-set systems tagged for T.
func SetComponent[T any](w *World, e Entity, component T) {
	setComponent(w, e, infoOf[T](w.registry), component)
}

func setComponent[T any](w *World, e Entity, info *componentInfo, component T) {
	store, existed := w.beginSet(e, info)
	store.(*SparseSet[T]).Add(e, component)
	w.endSet(e, info, existed)
}

// RemoveComponent removes e's T after running the on-remove systems tagged for T.
// It does nothing if e has no T.
func RemoveComponent[T any](w *World, e Entity) {
	w.remove(e, infoOf[T](w.registry))
}

// Unpack returns a pointer to e's T. It panics if e has no T.
// The pointer is invalidated by the next removal of any T in the World.
func Unpack[T any](w *World, e Entity) *T {
	v, ok := TryUnpack[T](w, e)
	if !ok {
		invariant("entity %s has no %s", e, reflect.TypeFor[T]())
	}
	return v
}

// TryUnpack returns a pointer to e's T, or false if e has none.
func TryUnpack[T any](w *World, e Entity) (*T, bool) {
	if int(e.Index()) >= len(w.entities) {
		return nil, false
	}
	return storageOf[T](w).Get(e)
}

// Has reports whether e carries a T.
func Has[T any](w *World, e Entity) bool {
	_, ok := TryUnpack[T](w, e)
	return ok
}

// AddSingleton adds component to the World's singleton entity.
func AddSingleton[T any](w *World, component T) {
	AddComponent(w, w.singleton, component)
}

// SetSingleton sets component on the World's singleton entity.
func SetSingleton[T any](w *World, component T) {
	SetComponent(w, w.singleton, component)
}

// RemoveSingleton removes T from the World's singleton entity.
func RemoveSingleton[T any](w *World) {
	RemoveComponent[T](w, w.singleton)
}

// UnpackSingleton returns the singleton entity's T, or false if it has none.
func UnpackSingleton[T any](w *World) (*T, bool) {
	return TryUnpack[T](w, w.singleton)
}

// UnpackUnique returns the only T in the World, or false if there is none.
// It panics if more than one entity carries a T.
func UnpackUnique[T any](w *World) (*T, bool) {
	store := storageOf[T](w)
	switch store.Len() {
	case 0:
		return nil, false
	case 1:
		return &store.Values()[0], true
	default:
		invariant("%d instances of %s exist, expected at most one", store.Len(), reflect.TypeFor[T]())
		return nil, false
	}
}

// GetAll returns a live view of every T in the World, in storage order.
// Adding or removing a T invalidates the view.
func GetAll[T any](w *World) []T {
	return storageOf[T](w).Values()
}

// GetAllReadOnly iterates copies of every T in the World.
func GetAllReadOnly[T any](w *World) iter.Seq[T] {
	store := storageOf[T](w)
	return func(yield func(T) bool) {
		for _, v := range store.Values() {
			if !yield(v) {
				return
			}
		}
	}
}

// GetAllWithEntities returns parallel live views of the owners and values of every T.
func GetAllWithEntities[T any](w *World) ([]Entity, []T) {
	store := storageOf[T](w)
	return store.Keys(), store.Values()
}

// Count returns the number of live T components.
func Count[T any](w *World) int {
	return storageOf[T](w).Len()
}

// ComponentReader is implemented by anything that can look up a component by type.
type ComponentReader interface {
	GetComponent(Entity, reflect.Type) any
}

// ReadComponent returns e's T through a ComponentReader, or nil.
func ReadComponent[T any](reader ComponentReader, e Entity) *T {
	v, _ := reader.GetComponent(e, reflect.TypeFor[T]()).(*T)
	return v
}

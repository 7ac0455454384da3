package ecs

// Previous holds the value a component of type T had before its latest
// SetComponent. It is only maintained for types registered with RegisterPrevious.
type Previous[T any] struct {
	Value T
}

// RegisterPrevious registers T (with flags) and its Previous[T] shadow.
// From then on every SetComponent of T first copies the old value, or the zero
// value when the entity did not have T yet, into Previous[T].
func RegisterPrevious[T any](r *ComponentRegistry, flags ...ComponentFlags) ComponentType {
	slot := RegisterComponent[T](r, flags...)
	info := r.entries[slot]
	RegisterComponent[Previous[T]](r, info.flags)

	info.snapshot = func(w *World, e Entity) {
		var old T
		if v, ok := TryUnpack[T](w, e); ok {
			old = *v
		}
		SetComponent(w, e, Previous[T]{Value: old})
	}
	return slot
}

package ecs

// Singleton provides typed access to a component stored on a World's
// singleton entity. Use it for world-wide state such as input, timing or
// configuration.
type Singleton[T any] struct {
	world *World
}

// NewSingleton creates a Singleton accessor for w.
// If the singleton entity does not carry a T yet, it is added with the
// initializer value, or the zero value. This guarantees the component exists
// after the call.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	if _, ok := UnpackSingleton[T](w); !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		AddSingleton(w, value)
	}
	return &Singleton[T]{world: w}
}

// Get returns a pointer to the singleton component, or nil if it has been removed.
func (s *Singleton[T]) Get() *T {
	v, _ := UnpackSingleton[T](s.world)
	return v
}

// Exists returns true if the singleton entity carries a T.
func (s *Singleton[T]) Exists() bool {
	_, ok := UnpackSingleton[T](s.world)
	return ok
}

// Set overwrites the singleton component, firing on-set systems.
func (s *Singleton[T]) Set(value T) {
	SetSingleton(s.world, value)
}

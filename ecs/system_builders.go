package ecs

import "reflect"

// AddSystem adds a system without component parameters to g. It runs once per
// invocation, or once per event when g is an event phase.
func AddSystem(g *SystemGroup, fn func()) *System {
	s := newSystem(fn)
	s.invokeOne = func(*World, Entity, []ComponentType) { fn() }
	s.invokeAll = func(*World, []ComponentType) { fn() }
	return g.add(s)
}

// AddSystem1 adds a system over every entity carrying an A. It walks A's
// storage directly, so it sees components added to the end of the storage
// during the same run.
func AddSystem1[A any](g *SystemGroup, fn func(*A)) *System {
	s := newSystem(fn, reflect.TypeFor[A]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(unpackAt[A](w, slots[0], e))
	}
	s.invokeAll = func(w *World, slots []ComponentType) {
		store := storageAt[A](w, slots[0])
		for i := 0; i < store.Len(); i++ {
			fn(&store.Values()[i])
		}
	}
	return g.add(s)
}

// AddSystem2 adds a system over every entity carrying both an A and a B.
func AddSystem2[A, B any](g *SystemGroup, fn func(*A, *B)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
		)
	}
	return g.add(s)
}

// AddSystem3 is AddSystem2 over 3 component types.
func AddSystem3[A, B, C any](g *SystemGroup, fn func(*A, *B, *C)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
			unpackAt[C](w, slots[2], e),
		)
	}
	return g.add(s)
}

// AddSystem4 is AddSystem2 over 4 component types.
func AddSystem4[A, B, C, D any](g *SystemGroup, fn func(*A, *B, *C, *D)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
			unpackAt[C](w, slots[2], e),
			unpackAt[D](w, slots[3], e),
		)
	}
	return g.add(s)
}

// AddSystem5 is AddSystem2 over 5 component types.
func AddSystem5[A, B, C, D, E any](g *SystemGroup, fn func(*A, *B, *C, *D, *E)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D](), reflect.TypeFor[E]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
			unpackAt[C](w, slots[2], e),
			unpackAt[D](w, slots[3], e),
			unpackAt[E](w, slots[4], e),
		)
	}
	return g.add(s)
}

// AddSystem6 is AddSystem2 over 6 component types.
func AddSystem6[A, B, C, D, E, F any](g *SystemGroup, fn func(*A, *B, *C, *D, *E, *F)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D](), reflect.TypeFor[E](), reflect.TypeFor[F]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
			unpackAt[C](w, slots[2], e),
			unpackAt[D](w, slots[3], e),
			unpackAt[E](w, slots[4], e),
			unpackAt[F](w, slots[5], e),
		)
	}
	return g.add(s)
}

// AddSystem7 is AddSystem2 over 7 component types.
func AddSystem7[A, B, C, D, E, F, G any](g *SystemGroup, fn func(*A, *B, *C, *D, *E, *F, *G)) *System {
	s := newSystem(fn, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D](), reflect.TypeFor[E](), reflect.TypeFor[F](), reflect.TypeFor[G]())
	s.invokeOne = func(w *World, e Entity, slots []ComponentType) {
		fn(
			unpackAt[A](w, slots[0], e),
			unpackAt[B](w, slots[1], e),
			unpackAt[C](w, slots[2], e),
			unpackAt[D](w, slots[3], e),
			unpackAt[E](w, slots[4], e),
			unpackAt[F](w, slots[5], e),
			unpackAt[G](w, slots[6], e),
		)
	}
	return g.add(s)
}

package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads a fixed combination of components of one entity at a time,
// outside of any system. Use it for tools and one-off lookups.
//
// The type T must be a struct whose fields are pointers to registered
// component types. Embedded fields are always required; named fields can be
// marked optional with the `ecs:"optional"` struct tag and are left nil when
// the entity does not carry them.
type View[T any] struct {
	world       *World
	slots       []ComponentType
	optional    []bool
	fieldOffset []uintptr
	required    ComponentMask
}

// NewView creates a view of T over w.
func NewView[T any](w *World) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		invariant("view type %s must be a struct", structType)
	}

	v := &View[T]{
		world:       w,
		slots:       make([]ComponentType, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
		required:    NewComponentMask(w.registry.Config().MaxComponentTypes),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			invariant("view field %s.%s must be a pointer", structType, field.Name)
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				invariant("invalid ecs tag value %q on %s.%s (only \"optional\" is supported)", tag, structType, field.Name)
			}
		}

		info := w.registry.info(field.Type.Elem())
		v.slots = append(v.slots, info.slot)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		if !isOptional {
			v.required.Set(info.slot)
		}
	}
	return v
}

// Fill points the fields of ptr at e's components.
// It returns false if e is dead or missing a required component.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	if !v.world.Alive(e) || !v.world.Mask(e).Matches(&v.required) {
		return false
	}

	structPtr := unsafe.Pointer(ptr)
	for i, slot := range v.slots {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		var component any
		if store := v.world.stores[slot]; store != nil {
			component = store.getAny(e)
		}
		if component == nil {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		// component holds a *C; copy the pointer word out of the interface
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// Get returns a populated view of e, or nil if e does not match.
func (v *View[T]) Get(e Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter yields every live entity matching the view, in ascending index order.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		var result T
		for e := range v.world.Entities() {
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values is Iter without the entities.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Create creates an entity carrying the components the fields of data point
// at. Nil optional fields are skipped; a nil required field panics.
func (v *View[T]) Create(data T) Entity {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.slots))
	for i, slot := range v.slots {
		componentPtr := *(*unsafe.Pointer)(unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				invariant("required %s is nil in View.Create", v.world.registry.TypeOf(slot))
			}
			continue
		}
		componentType := v.world.registry.TypeOf(slot)
		components = append(components, reflect.NewAt(componentType, componentPtr).Elem().Interface())
	}

	e := v.world.CreateEntity()
	for _, component := range components {
		v.world.AddComponent(e, component)
	}
	return e
}

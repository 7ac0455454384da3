package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// ComponentType is the slot a registry assigns to a component type.
// Slots index masks and per-World storage.
type ComponentType uint16

// contextSlot is the slot of Context, registered first by every registry.
const contextSlot ComponentType = 0

// ComponentFlags restrict how many instances of a type may be live in a World.
type ComponentFlags uint8

const (
	// Unique limits a type to one live instance per World.
	Unique ComponentFlags = 1 << iota
	// SingletonOnly limits a type to the World's singleton entity. Implies Unique.
	SingletonOnly
)

type componentInfo struct {
	typ        reflect.Type
	slot       ComponentType
	flags      ComponentFlags
	newStorage func(capacity, maxIndex int) componentStorage
	// snapshot copies the current value into its Previous[T] shadow, if one is registered.
	snapshot func(w *World, e Entity)
}

func (ci *componentInfo) unique() bool {
	return ci.flags&(Unique|SingletonOnly) != 0
}

// ComponentRegistry manages component type registration for an ECS instance.
// Slots are assigned in registration order and never change. A registry only
// holds the slot table; every World built on it owns its own storage, so one
// registry can back many independent Worlds.
type ComponentRegistry struct {
	config  Config
	entries []*componentInfo
	lookup  *intmap.Map[int, ComponentType]
}

// NewComponentRegistry creates a registry bound to cfg. Context always takes slot 0.
func NewComponentRegistry(cfg Config) *ComponentRegistry {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	r := &ComponentRegistry{
		config:  cfg,
		entries: make([]*componentInfo, 0, cfg.MaxComponentTypes),
		lookup:  intmap.New[int, ComponentType](cfg.MaxComponentTypes),
	}
	RegisterComponent[Context](r)
	return r
}

// RegisterComponent registers T with the registry and returns its slot.
// Registering the same type again returns the existing slot; doing so with
// different flags is an error. Registering more types than
// Config.MaxComponentTypes panics.
func RegisterComponent[T any](r *ComponentRegistry, flags ...ComponentFlags) ComponentType {
	var f ComponentFlags
	for _, fl := range flags {
		f |= fl
	}

	t := reflect.TypeFor[T]()
	if slot, ok := r.lookup.Get(typeID(t)); ok {
		if existing := r.entries[slot]; existing.flags != f {
			invariant("component type %s re-registered with flags %b (was %b)", t, f, existing.flags)
		}
		return slot
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		invariant("component type %s must be a value type", t)
	}

	if len(r.entries) >= r.config.MaxComponentTypes {
		invariant("too many component types registered: %s would exceed %d", t, r.config.MaxComponentTypes)
	}

	slot := ComponentType(len(r.entries))
	info := &componentInfo{
		typ:   t,
		slot:  slot,
		flags: f,
		newStorage: func(capacity, maxIndex int) componentStorage {
			return NewSparseSet[T](capacity, maxIndex)
		},
	}
	r.entries = append(r.entries, info)
	r.lookup.Put(typeID(t), slot)
	return slot
}

// Lookup returns the slot of a registered type.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentType, bool) {
	if t == nil {
		return 0, false
	}
	return r.lookup.Get(typeID(t))
}

// TypeOf returns the type registered at slot.
func (r *ComponentRegistry) TypeOf(slot ComponentType) reflect.Type {
	return r.entries[slot].typ
}

// Flags returns the flags registered for slot.
func (r *ComponentRegistry) Flags(slot ComponentType) ComponentFlags {
	return r.entries[slot].flags
}

// Len returns the number of registered types.
func (r *ComponentRegistry) Len() int {
	return len(r.entries)
}

// Config returns the limits the registry was built with.
func (r *ComponentRegistry) Config() Config {
	return r.config
}

func (r *ComponentRegistry) info(t reflect.Type) *componentInfo {
	slot, ok := r.Lookup(t)
	if !ok {
		invariant("component type %s not registered", t)
	}
	return r.entries[slot]
}

func infoOf[T any](r *ComponentRegistry) *componentInfo {
	return r.info(reflect.TypeFor[T]())
}

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeID uses the runtime type descriptor address as a map key.
func typeID(t reflect.Type) int {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return int(uintptr(ptr))
}

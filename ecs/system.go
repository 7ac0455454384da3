package ecs

import (
	"reflect"
	"runtime"
	"strings"
	"time"
)

// System is a function over entities carrying a fixed set of component types.
// Systems are created by the AddSystem builders and belong to exactly one
// SystemGroup.
//
// A system with two or more component types keeps the set of entities whose
// masks match its required mask, updated incrementally as components come and
// go. Single-type systems iterate that type's storage directly.
type System struct {
	name   string
	types  []reflect.Type
	slots  []ComponentType
	events []Event

	required   ComponentMask
	registered *SparseSet[Entity]
	snapshot   []Entity

	locked bool
	ready  bool

	invokeOne func(w *World, e Entity, slots []ComponentType)
	invokeAll func(w *World, slots []ComponentType)

	stats systemStatsInternal
}

func newSystem(fn any, types ...reflect.Type) *System {
	name := funcName(fn)
	return &System{
		name:  name,
		types: types,
		stats: newSystemStats(name),
	}
}

// Named overrides the name derived from the system function.
func (s *System) Named(name string) *System {
	s.name = name
	s.stats.name = name
	return s
}

// On tags the system with the events it reacts to. Systems in an event phase
// only run for events they are tagged with.
func (s *System) On(events ...Event) *System {
	if s.ready {
		invariant("system %s tagged after registration", s.name)
	}
	s.events = append(s.events, events...)
	return s
}

func (s *System) Name() string {
	return s.name
}

// Types returns the component types the system takes, in parameter order.
func (s *System) Types() []reflect.Type {
	return s.types
}

func (s *System) Arity() int {
	return len(s.types)
}

func (s *System) Events() []Event {
	return s.events
}

func (s *System) IsLocked() bool {
	return s.locked
}

// Lock marks the system as running. Locking a running system panics.
func (s *System) Lock() {
	if s.locked {
		invariant("system %s is already locked", s.name)
	}
	s.locked = true
}

func (s *System) Unlock() {
	s.locked = false
}

// RegisteredEntities returns a live view of the entities a multi-type system
// currently matches. It is nil for systems with fewer than two types.
func (s *System) RegisteredEntities() []Entity {
	if s.registered == nil {
		return nil
	}
	return s.registered.Keys()
}

func (s *System) hasEventKind(kind EventKind) bool {
	for _, ev := range s.events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// register resolves the system's types against w's registry and seeds its
// entity set from the live entities of w.
func (s *System) register(w *World) {
	if s.ready {
		invariant("system %s registered twice", s.name)
	}

	registry := w.Registry()
	s.slots = make([]ComponentType, len(s.types))
	s.required = NewComponentMask(registry.Config().MaxComponentTypes)
	for i, t := range s.types {
		info := registry.info(t)
		s.slots[i] = info.slot
		s.required.Set(info.slot)
	}
	for _, ev := range s.events {
		if ev.Type != nil {
			registry.info(ev.Type)
		}
	}

	if len(s.types) >= 2 {
		maxEntities := registry.Config().MaxEntities
		s.registered = NewSparseSet[Entity](maxEntities, maxEntities)
		for e := range w.Entities() {
			s.TryAddEntity(e, w.Mask(e))
		}
	}
	s.ready = true
}

// TryAddEntity adds e to the system's entity set if mask now matches.
func (s *System) TryAddEntity(e Entity, mask *ComponentMask) {
	if s.registered == nil || !mask.Matches(&s.required) {
		return
	}
	s.registered.Add(e, e)
}

// TryRemoveEntity drops e from the system's entity set if mask no longer matches.
func (s *System) TryRemoveEntity(e Entity, mask *ComponentMask) {
	if s.registered == nil || mask.Matches(&s.required) {
		return
	}
	s.registered.Remove(e)
}

// Invoke runs the system. With an entity it runs once for that entity, and
// only if the entity carries every required type. Without one it runs over
// every matching entity.
func (s *System) Invoke(w *World, e Entity, hasEntity bool) {
	if !s.ready {
		return
	}

	if hasEntity {
		if !w.Alive(e) || !w.Mask(e).Matches(&s.required) {
			return
		}
		s.invokeOne(w, e, s.slots)
		return
	}

	if s.invokeAll != nil {
		s.invokeAll(w, s.slots)
		return
	}

	// entities may leave the set while we iterate it
	s.snapshot = append(s.snapshot[:0], s.registered.Keys()...)
	for _, e := range s.snapshot {
		if s.registered.Contains(e) {
			s.invokeOne(w, e, s.slots)
		}
	}
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats(name string) systemStatsInternal {
	return systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d

	if d < st.minDuration {
		st.minDuration = d
	}
	if d > st.maxDuration {
		st.maxDuration = d
	}
}

func (st *systemStatsInternal) export() SystemStats {
	stats := SystemStats{
		Name:           st.name,
		ExecutionCount: st.executionCount,
		MaxDuration:    st.maxDuration,
		LastDuration:   st.lastDuration,
		TotalDuration:  st.totalDuration,
	}
	if st.executionCount > 0 {
		stats.MinDuration = st.minDuration
		stats.AvgDuration = st.totalDuration / time.Duration(st.executionCount)
	}
	return stats
}

// funcName derives a readable system name from a function value,
// e.g. "main.moveSystem" or "game.(*Physics).Step".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return v.Type().String()
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "system"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

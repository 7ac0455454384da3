package ecs

import (
	"iter"
	"reflect"
	"slices"
	"time"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// World owns every entity of one simulation instance: their masks, their
// component storage and their destroy-time cleanup lists. Every component
// mutation and entity lifecycle transition goes through it.
//
// A World is created by its WorldHandle and reports structural changes back to
// it so the handle's system groups keep their entity sets current.
type World struct {
	handle    *WorldHandle
	registry  *ComponentRegistry
	logger    *zap.Logger
	allocator *EntityAllocator

	entities []Entity
	alive    []bool
	masks    []ComponentMask
	// cleanups lists, per live entity index, the component types to remove on destroy.
	cleanups *intmap.Map[uint32, []ComponentType]
	stores   []componentStorage

	singleton Entity
}

func newWorld(h *WorldHandle, registry *ComponentRegistry, logger *zap.Logger) *World {
	cfg := registry.Config()
	w := &World{
		handle:    h,
		registry:  registry,
		logger:    logger,
		allocator: NewEntityAllocator(cfg.MaxEntities),
		entities:  make([]Entity, cfg.MaxEntities),
		alive:     make([]bool, cfg.MaxEntities),
		masks:     make([]ComponentMask, cfg.MaxEntities),
		cleanups:  intmap.New[uint32, []ComponentType](256),
		stores:    make([]componentStorage, cfg.MaxComponentTypes),
	}
	w.singleton = w.CreateEntity()
	return w
}

// Registry returns the registry the World resolves component types against.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Handle returns the WorldHandle that owns the World.
func (w *World) Handle() *WorldHandle {
	return w.handle
}

// Singleton returns the entity that hosts world-wide singleton components.
func (w *World) Singleton() Entity {
	return w.singleton
}

// CreateEntity allocates an entity and attaches its Context.
func (w *World) CreateEntity() Entity {
	e := w.allocator.Create()
	idx := e.Index()

	w.entities[idx] = e
	w.alive[idx] = true
	if w.masks[idx].words == nil {
		w.masks[idx] = NewComponentMask(w.registry.Config().MaxComponentTypes)
	} else {
		w.masks[idx].Reset()
	}
	w.cleanups.Put(idx, make([]ComponentType, 0, 4))

	SetComponent(w, e, Context{world: w, entity: e})
	return e
}

// DestroyEntity runs the on-destroy systems for e, removes every component it
// carries and recycles its index. Destroying an entity that is not alive does
// nothing. The singleton entity cannot be destroyed.
func (w *World) DestroyEntity(e Entity) {
	if !w.Alive(e) {
		w.logger.Debug("ignoring destroy of dead entity", zap.Stringer("entity", e))
		return
	}
	if e == w.singleton {
		invariant("cannot destroy the singleton entity %s", e)
	}

	w.fire(PhaseDestroyEntity, e, OnDestroy())

	// an on-destroy system may have destroyed it already
	if !w.Alive(e) {
		return
	}

	idx := e.Index()
	// on-remove systems can add components while we clean up, so re-read the list
	for i := 0; ; i++ {
		list, _ := w.cleanups.Get(idx)
		if i >= len(list) {
			break
		}
		w.remove(e, w.registry.entries[list[i]])
	}
	// a type re-added after its cleanup ran is already listed, so sweep the mask
	for mask := &w.masks[idx]; !mask.IsEmpty(); {
		for slot := range mask.Slots() {
			w.remove(e, w.registry.entries[slot])
			break
		}
	}

	// or an on-remove system destroyed it
	if !w.Alive(e) {
		return
	}

	w.cleanups.Del(idx)
	w.masks[idx].Reset()
	w.alive[idx] = false
	w.allocator.Destroy(e)
}

// Alive reports whether e is the current occupant of its index.
func (w *World) Alive(e Entity) bool {
	idx := int(e.Index())
	return idx < len(w.entities) && w.alive[idx] && w.entities[idx] == e
}

// EntityCount returns the number of live entities, the singleton entity included.
func (w *World) EntityCount() int {
	return w.allocator.Len()
}

// Entities iterates live entities in ascending index order.
func (w *World) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i, ok := range w.alive {
			if ok && !yield(w.entities[i]) {
				return
			}
		}
	}
}

// Mask returns e's component mask. The mask is owned by the World and must not be modified.
func (w *World) Mask(e Entity) *ComponentMask {
	return &w.masks[e.Index()]
}

// ComponentTypes lists the types e currently carries, in slot order.
func (w *World) ComponentTypes(e Entity) []reflect.Type {
	if !w.Alive(e) {
		return nil
	}
	mask := w.Mask(e)
	types := make([]reflect.Type, 0, mask.Count())
	for slot := range mask.Slots() {
		types = append(types, w.registry.TypeOf(slot))
	}
	return types
}

// AddComponent adds a component whose type is taken from its dynamic type.
// Pointers are dereferenced. See the generic AddComponent for semantics.
func (w *World) AddComponent(e Entity, component any) {
	info := w.registry.info(componentTypeOf(component))
	w.replaceDuplicate(e, info)
	store, existed := w.beginSet(e, info)
	store.setAny(e, component)
	w.endSet(e, info, existed)
}

// SetComponent sets a component whose type is taken from its dynamic type.
func (w *World) SetComponent(e Entity, component any) {
	info := w.registry.info(componentTypeOf(component))
	store, existed := w.beginSet(e, info)
	store.setAny(e, component)
	w.endSet(e, info, existed)
}

// RemoveComponent removes the component of type compType from e, if present.
func (w *World) RemoveComponent(e Entity, compType reflect.Type) {
	w.remove(e, w.registry.info(compType))
}

// GetComponent returns a pointer to e's component of type compType, or nil.
func (w *World) GetComponent(e Entity, compType reflect.Type) any {
	slot, ok := w.registry.Lookup(compType)
	if !ok {
		return nil
	}
	store := w.stores[slot]
	if store == nil || int(e.Index()) >= len(w.entities) {
		return nil
	}
	return store.getAny(e)
}

// HasComponent reports whether e carries a component of type compType.
func (w *World) HasComponent(e Entity, compType reflect.Type) bool {
	return w.GetComponent(e, compType) != nil
}

// Run invokes every unlocked system of g over its matching entities.
func (w *World) Run(g *SystemGroup) {
	w.run(g, 0, false, nil)
}

// RunFor invokes the systems of g that pass filter for the single entity e.
// A nil filter selects every unlocked system.
func (w *World) RunFor(g *SystemGroup, e Entity, filter SystemFilter) {
	w.run(g, e, true, filter)
}

// run locks every selected system before invoking any of them, so a system
// that triggers the same group from inside its body is skipped rather than
// re-entered.
func (w *World) run(g *SystemGroup, e Entity, hasEntity bool, filter SystemFilter) {
	if !g.registered || len(g.systems) == 0 {
		return
	}

	var buf [32]bool
	shouldRun := buf[:0]
	if len(g.systems) > len(buf) {
		shouldRun = make([]bool, 0, len(g.systems))
	}

	for _, s := range g.systems {
		selected := !s.locked && (filter == nil || filter.Filter(s))
		if selected {
			s.Lock()
		}
		shouldRun = append(shouldRun, selected)
	}

	for i, s := range g.systems {
		if !shouldRun[i] {
			continue
		}
		start := time.Now()
		s.Invoke(w, e, hasEntity)
		s.stats.record(time.Since(start))
		s.Unlock()
	}
}

func (w *World) storage(info *componentInfo) componentStorage {
	store := w.stores[info.slot]
	if store == nil {
		maxEntities := w.registry.Config().MaxEntities
		capacity := maxEntities
		if info.unique() {
			capacity = 1
		}
		store = info.newStorage(capacity, maxEntities)
		w.stores[info.slot] = store
	}
	return store
}

// beginSet validates a write of info's type to e and runs the previous-value snapshot.
func (w *World) beginSet(e Entity, info *componentInfo) (componentStorage, bool) {
	if !w.Alive(e) {
		invariant("cannot set %s on dead entity %s", info.typ, e)
	}
	if info.flags&SingletonOnly != 0 && e != w.singleton {
		invariant("singleton component %s can only be set on the singleton entity, not %s", info.typ, e)
	}

	store := w.storage(info)
	existed := store.Contains(e)
	if !existed && info.unique() && store.Len() > 0 {
		invariant("unique component %s already held by entity %s", info.typ, store.Keys()[0])
	}

	if info.snapshot != nil {
		info.snapshot(w, e)
	}
	return store, existed
}

// endSet publishes a write: membership and on-add for a new component, on-set otherwise.
func (w *World) endSet(e Entity, info *componentInfo, existed bool) {
	if existed {
		w.fire(PhaseSetComponent, e, Event{Kind: EventSet, Type: info.typ})
		return
	}

	idx := e.Index()
	mask := &w.masks[idx]
	mask.Set(info.slot)
	w.handle.componentAdded(e, mask)

	list, _ := w.cleanups.Get(idx)
	if !slices.Contains(list, info.slot) {
		w.cleanups.Put(idx, append(list, info.slot))
	}

	w.fire(PhaseAddComponent, e, Event{Kind: EventAdd, Type: info.typ})
}

// replaceDuplicate implements the add-over-existing policy: warn, then remove
// the old instance so the add fires on-remove followed by on-add.
func (w *World) replaceDuplicate(e Entity, info *componentInfo) {
	store := w.stores[info.slot]
	if store == nil || !w.Alive(e) || !store.Contains(e) {
		return
	}
	w.logger.Warn("component added twice, replacing; use SetComponent to overwrite",
		zap.Stringer("entity", e),
		zap.Stringer("type", info.typ),
	)
	w.remove(e, info)
}

func (w *World) remove(e Entity, info *componentInfo) {
	store := w.stores[info.slot]
	if store == nil || int(e.Index()) >= len(w.entities) || !store.Contains(e) {
		return
	}

	w.fire(PhaseRemoveComponent, e, Event{Kind: EventRemove, Type: info.typ})

	// an on-remove system may have removed it already
	if !store.Contains(e) {
		return
	}

	store.Remove(e)
	mask := &w.masks[e.Index()]
	mask.Clear(info.slot)
	w.handle.componentRemoved(e, mask)
}

// componentTypeOf returns the component type of a value, dereferencing pointers.
func componentTypeOf(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		invariant("nil component")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// fire runs the event-phase group p for e, selecting only systems tagged for ev.
func (w *World) fire(p Phase, e Entity, ev Event) {
	w.run(w.handle.groups[p], e, true, ev)
}

package ecs

import "reflect"

// Commands buffers structural changes so systems can request them while
// iterating and have them applied once the phase has finished.
type Commands struct {
	creates []createCommand
	deletes []Entity
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()

	spare *Commands
}

func newCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues fn to run after every other queued command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Create queues the creation of an entity carrying components.
func (c *Commands) Create(components ...any) {
	c.creates = append(c.creates, createCommand{components: components})
}

// Destroy queues the destruction of entity. Adds and removes queued for the
// same entity in this batch are dropped.
func (c *Commands) Destroy(entity Entity) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued commands to w: destroys, removes, adds, creates, then
// deferred functions. Systems triggered by the flush may queue more commands;
// those are applied before Flush returns.
func (c *Commands) Flush(w *World) {
	for c.Len() > 0 {
		batch := c.swap()
		batch.apply(w)
		batch.reset()
	}
}

// swap moves the queued commands into a batch and leaves c empty, so commands
// queued while the batch is applied go into the next batch.
func (c *Commands) swap() *Commands {
	batch := c.spare
	if batch == nil {
		batch = newCommands()
	}
	c.spare = nil

	c.creates, batch.creates = batch.creates, c.creates
	c.deletes, batch.deletes = batch.deletes, c.deletes
	c.adds, batch.adds = batch.adds, c.adds
	c.removes, batch.removes = batch.removes, c.removes
	c.defers, batch.defers = batch.defers, c.defers

	// batch is handed back as the spare by reset
	batch.spare = c
	return batch
}

func (c *Commands) apply(w *World) {
	deleted := make(map[Entity]bool, len(c.deletes))

	for _, e := range c.deletes {
		w.DestroyEntity(e)
		deleted[e] = true
	}

	for _, cmd := range c.removes {
		if !deleted[cmd.entity] && w.Alive(cmd.entity) {
			w.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !deleted[cmd.entity] && w.Alive(cmd.entity) {
			w.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.creates {
		e := w.CreateEntity()
		for _, component := range cmd.components {
			w.AddComponent(e, component)
		}
	}

	for _, fn := range c.defers {
		fn()
	}
}

func (c *Commands) reset() {
	clear(c.creates)
	clear(c.adds)
	clear(c.defers)
	c.creates = c.creates[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]

	owner := c.spare
	c.spare = nil
	owner.spare = c
}

package ecs

import "reflect"

// Context is attached to every entity when it is created. A system that takes
// *Context gets an entity-scoped view of its World, which is how system code
// creates and destroys entities and changes components without holding a
// World reference of its own.
type Context struct {
	world  *World
	entity Entity
}

// Entity returns the entity this Context is attached to.
func (c *Context) Entity() Entity {
	return c.entity
}

func (c *Context) World() *World {
	return c.world
}

// Commands returns the deferred mutation buffer of the owning WorldHandle.
func (c *Context) Commands() *Commands {
	return c.world.handle.commands
}

func (c *Context) CreateEntity() Entity {
	return c.world.CreateEntity()
}

// Destroy destroys the entity this Context is attached to.
func (c *Context) Destroy() {
	c.world.DestroyEntity(c.entity)
}

func (c *Context) DestroyEntity(e Entity) {
	c.world.DestroyEntity(e)
}

func (c *Context) AddComponent(component any) {
	c.world.AddComponent(c.entity, component)
}

func (c *Context) AddComponentTo(e Entity, component any) {
	c.world.AddComponent(e, component)
}

func (c *Context) SetComponent(component any) {
	c.world.SetComponent(c.entity, component)
}

func (c *Context) SetComponentOf(e Entity, component any) {
	c.world.SetComponent(e, component)
}

func (c *Context) RemoveComponent(compType reflect.Type) {
	c.world.RemoveComponent(c.entity, compType)
}

func (c *Context) RemoveComponentFrom(e Entity, compType reflect.Type) {
	c.world.RemoveComponent(e, compType)
}

func (c *Context) AddSingleton(component any) {
	c.world.AddComponent(c.world.singleton, component)
}

func (c *Context) RemoveSingleton(compType reflect.Type) {
	c.world.RemoveComponent(c.world.singleton, compType)
}

// GetComponent returns a pointer to e's component of type compType, or nil.
func (c *Context) GetComponent(e Entity, compType reflect.Type) any {
	return c.world.GetComponent(e, compType)
}

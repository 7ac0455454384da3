package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/lux/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementFeature struct{}

func (movementFeature) OnUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem2(g, moveSystem).Named("movement")
}

type lifetimeFeature struct {
	destroyed int
}

func (f *lifetimeFeature) OnFixedUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem2(g, func(ctx *ecs.Context, hp *Health) {
		hp.Current--
		if hp.Current <= 0 {
			ctx.Destroy()
		}
	}).Named("decay")
}

func (f *lifetimeFeature) OnDestroyEntity(g *ecs.SystemGroup) {
	ecs.AddSystem(g, func() { f.destroyed++ }).On(ecs.OnDestroy())
}

func TestFeatures(t *testing.T) {
	lifetime := &lifetimeFeature{}
	h := newTestHandle().AddFeature(movementFeature{}, lifetime)

	assert.Equal(t, 1, h.Group(ecs.PhaseUpdate).Len())
	assert.Equal(t, 1, h.Group(ecs.PhaseFixedUpdate).Len())
	assert.Equal(t, 1, h.Group(ecs.PhaseDestroyEntity).Len())
	assert.Equal(t, "movement", h.Group(ecs.PhaseUpdate).Systems()[0].Name())

	h.Init()
	w := h.World()
	e := w.CreateEntity()
	ecs.AddComponent(w, e, Health{Current: 2})

	h.FixedUpdate()
	assert.True(t, w.Alive(e))
	h.FixedUpdate()
	assert.False(t, w.Alive(e))
	assert.Equal(t, 1, lifetime.destroyed)
}

func TestFeatureFunc(t *testing.T) {
	runs := 0
	h := newTestHandle().AddFeature(ecs.FeatureFunc{
		Phase: ecs.PhaseDraw,
		Fn: func(g *ecs.SystemGroup) {
			ecs.AddSystem(g, func() { runs++ })
		},
	})
	h.Init()
	h.Draw()
	assert.Equal(t, 1, runs)
}

func TestFeatureWithoutHooks(t *testing.T) {
	h := newTestHandle()
	requireInvariant(t, func() { h.AddFeature(struct{}{}) })
}

func TestContext(t *testing.T) {
	h := newTestHandle()
	w := h.World()
	e := w.CreateEntity()

	ctx := ecs.Unpack[ecs.Context](w, e)
	assert.Equal(t, e, ctx.Entity())
	assert.Same(t, w, ctx.World())
	assert.Same(t, h.Commands(), ctx.Commands())

	ctx.AddComponent(Position{X: 1})
	ctx.SetComponent(Position{X: 2})
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](ctx, e).X)

	other := ctx.CreateEntity()
	ctx.AddComponentTo(other, Velocity{DX: 3})
	ctx.SetComponentOf(other, Velocity{DX: 4})
	assert.Equal(t, float32(4), ecs.Unpack[Velocity](w, other).DX)

	ctx.RemoveComponentFrom(other, reflect.TypeFor[Velocity]())
	assert.False(t, ecs.Has[Velocity](w, other))

	ctx.AddSingleton(GameClock{Ticks: 9})
	clock, ok := ecs.UnpackSingleton[GameClock](ctx.World())
	require.True(t, ok)
	assert.Equal(t, 9, clock.Ticks)
	ctx.RemoveSingleton(reflect.TypeFor[GameClock]())
	_, ok = ecs.UnpackSingleton[GameClock](w)
	assert.False(t, ok)

	ctx.DestroyEntity(other)
	assert.False(t, w.Alive(other))

	ctx.RemoveComponent(reflect.TypeFor[Position]())
	assert.False(t, ecs.Has[Position](w, e))

	ctx.Destroy()
	assert.False(t, w.Alive(e))
}

func TestScene(t *testing.T) {
	scene := ecs.NewScene(newTestRegistry(), nil)

	counts := map[string]int{}
	first := scene.CreateWorld(ecs.FeatureFunc{Phase: ecs.PhaseUpdate, Fn: func(g *ecs.SystemGroup) {
		ecs.AddSystem(g, func() { counts["first"]++ })
	}})
	second := scene.CreateWorld(ecs.FeatureFunc{Phase: ecs.PhaseUpdate, Fn: func(g *ecs.SystemGroup) {
		ecs.AddSystem(g, func() { counts["second"]++ })
	}})
	assert.Equal(t, []*ecs.WorldHandle{first, second}, scene.Worlds())
	assert.NotSame(t, first.World(), second.World())

	scene.Init()
	scene.FixedUpdate()
	scene.Update()
	scene.Update()
	scene.Draw()
	assert.Equal(t, map[string]int{"first": 2, "second": 2}, counts)

	// a World created later is initialized by the next Init
	late := scene.CreateWorld()
	assert.False(t, late.Initialized())
	assert.NotPanics(t, scene.Init)
	assert.True(t, late.Initialized())
}

func TestSingletonAccessor(t *testing.T) {
	w := newTestHandle().World()

	clock := ecs.NewSingleton(w, GameClock{Ticks: 5})
	assert.True(t, clock.Exists())
	assert.Equal(t, 5, clock.Get().Ticks)

	// a second accessor does not reset the value
	again := ecs.NewSingleton[GameClock](w)
	assert.Equal(t, 5, again.Get().Ticks)

	clock.Get().Ticks++
	assert.Equal(t, 6, again.Get().Ticks)

	clock.Set(GameClock{Ticks: 1})
	assert.Equal(t, 1, again.Get().Ticks)

	ecs.RemoveSingleton[GameClock](w)
	assert.False(t, clock.Exists())
	assert.Nil(t, clock.Get())
}

package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/lux/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveSystem(p *Position, v *Velocity) {
	p.X += v.DX
	p.Y += v.DY
}

func TestSystemMovesOncePerUpdate(t *testing.T) {
	t.Run("entity created after init", func(t *testing.T) {
		h := newTestHandle()
		ecs.AddSystem2(h.Group(ecs.PhaseUpdate), moveSystem)
		h.Init()

		w := h.World()
		e := w.CreateEntity()
		ecs.AddComponent(w, e, Position{X: 0, Y: 0})
		ecs.AddComponent(w, e, Velocity{DX: 1, DY: 2})

		h.Update()
		assert.Equal(t, Position{X: 1, Y: 2}, *ecs.Unpack[Position](w, e))
	})

	t.Run("entity created before init", func(t *testing.T) {
		h := newTestHandle()
		w := h.World()
		e := w.CreateEntity()
		ecs.AddComponent(w, e, Position{X: 0, Y: 0})
		ecs.AddComponent(w, e, Velocity{DX: 1, DY: 2})

		ecs.AddSystem2(h.Group(ecs.PhaseUpdate), moveSystem)
		h.Init()

		h.Update()
		assert.Equal(t, Position{X: 1, Y: 2}, *ecs.Unpack[Position](w, e))
	})
}

func TestSystemMembership(t *testing.T) {
	h := newTestHandle()
	move := ecs.AddSystem2(h.Group(ecs.PhaseUpdate), moveSystem)
	h.Init()
	w := h.World()

	a := w.CreateEntity()
	b := w.CreateEntity()
	ecs.AddComponent(w, a, Position{})
	ecs.AddComponent(w, b, Position{})
	assert.Empty(t, move.RegisteredEntities())

	ecs.AddComponent(w, a, Velocity{})
	ecs.AddComponent(w, b, Velocity{})
	assert.ElementsMatch(t, []ecs.Entity{a, b}, move.RegisteredEntities())

	ecs.RemoveComponent[Velocity](w, a)
	assert.Equal(t, []ecs.Entity{b}, move.RegisteredEntities())

	w.DestroyEntity(b)
	assert.Empty(t, move.RegisteredEntities())
}

func TestSystemDestroyMidPhase(t *testing.T) {
	h := newTestHandle()
	w := h.World()

	destroyed := map[ecs.Entity]int{}
	ecs.AddSystem2(h.Group(ecs.PhaseUpdate), func(ctx *ecs.Context, hp *Health) {
		if hp.Current <= 0 {
			ctx.Destroy()
		}
	})
	ecs.AddSystem1(h.Group(ecs.PhaseDestroyEntity), func(ctx *ecs.Context) {
		destroyed[ctx.Entity()]++
	}).On(ecs.OnDestroy())
	h.Init()

	alive := w.CreateEntity()
	ecs.AddComponent(w, alive, Health{Current: 5})
	dying := w.CreateEntity()
	ecs.AddComponent(w, dying, Health{Current: 0})
	last := w.CreateEntity()
	ecs.AddComponent(w, last, Health{Current: 5})

	h.Update()

	assert.Equal(t, map[ecs.Entity]int{dying: 1}, destroyed)
	assert.False(t, w.Alive(dying))
	assert.True(t, w.Mask(dying).IsEmpty())
	assert.True(t, w.Alive(alive))
	assert.True(t, w.Alive(last))

	fresh := w.CreateEntity()
	assert.Equal(t, dying.Index(), fresh.Index())
	assert.Greater(t, fresh.Generation(), dying.Generation())

	// a second update must not see the destroyed entity again
	h.Update()
	assert.Equal(t, 1, destroyed[dying])
}

func TestSystemDispatchEquivalence(t *testing.T) {
	h := newTestHandle()
	w := h.World()

	var direct, registered []string
	ecs.AddSystem1(h.Group(ecs.PhaseUpdate), func(n *Name) {
		direct = append(direct, n.Value)
	})
	ecs.AddSystem2(h.Group(ecs.PhaseUpdate), func(n *Name, _ *ecs.Context) {
		registered = append(registered, n.Value)
	})

	var entities []ecs.Entity
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		e := w.CreateEntity()
		ecs.AddComponent(w, e, Name{Value: name})
		entities = append(entities, e)
	}
	w.CreateEntity()
	h.Init()

	ecs.RemoveComponent[Name](w, entities[1])
	w.DestroyEntity(entities[3])
	extra := w.CreateEntity()
	ecs.AddComponent(w, extra, Name{Value: "f"})

	h.Update()

	assert.ElementsMatch(t, []string{"a", "c", "e", "f"}, direct)
	assert.ElementsMatch(t, direct, registered)
}

func TestSystemSingleEntityMatchesRegisteredSet(t *testing.T) {
	h := newTestHandle()
	w := h.World()
	g := h.Group(ecs.PhaseUpdate)

	var sums []float32
	ecs.AddSystem2(g, func(p *Position, v *Velocity) {
		sums = append(sums, p.X+v.DX)
	}).Named("sum")
	positions := 0
	ecs.AddSystem1(g, func(*Position) { positions++ }).Named("positions")
	h.Init()

	still := w.CreateEntity()
	ecs.AddComponent(w, still, Position{X: 100})
	e := w.CreateEntity()
	ecs.AddComponent(w, e, Position{X: 1})
	ecs.AddComponent(w, e, Velocity{DX: 2})
	require.Equal(t, []ecs.Entity{e}, g.Systems()[0].RegisteredEntities())

	onlySum := ecs.SystemFilterFunc(func(s *ecs.System) bool { return s.Name() == "sum" })

	w.RunFor(g, e, onlySum)
	require.Len(t, sums, 1)
	assert.Zero(t, positions)

	// an entity missing a required type is not dispatched to
	w.RunFor(g, still, onlySum)
	require.Len(t, sums, 1)

	w.Run(g)
	assert.Equal(t, []float32{3, 3}, sums)
	assert.Equal(t, 2, positions)
}

func TestSystemEntityDispatch(t *testing.T) {
	h := newTestHandle()
	w := h.World()

	var seen []ecs.Entity
	ecs.AddSystem2(h.Group(ecs.PhaseAddComponent), func(ctx *ecs.Context, _ *Velocity) {
		seen = append(seen, ctx.Entity())
	}).On(ecs.OnAdd[Position]())
	h.Init()

	without := w.CreateEntity()
	ecs.AddComponent(w, without, Position{})

	with := w.CreateEntity()
	ecs.AddComponent(w, with, Velocity{})
	ecs.AddComponent(w, with, Position{})

	// only the entity carrying every required type is dispatched to
	assert.Equal(t, []ecs.Entity{with}, seen)
}

func TestSystemEventFiltering(t *testing.T) {
	h := newTestHandle()
	w := h.World()

	var events []string
	ecs.AddSystem(h.Group(ecs.PhaseAddComponent), func() {
		events = append(events, "add position")
	}).On(ecs.OnAdd[Position]())
	ecs.AddSystem(h.Group(ecs.PhaseAddComponent), func() {
		events = append(events, "add position or velocity")
	}).On(ecs.OnAdd[Position](), ecs.OnAdd[Velocity]())
	ecs.AddSystem(h.Group(ecs.PhaseRemoveComponent), func() {
		events = append(events, "remove velocity")
	}).On(ecs.OnRemove[Velocity]())
	ecs.AddSystem(h.Group(ecs.PhaseDestroyEntity), func() {
		events = append(events, "destroy")
	}).On(ecs.OnDestroy())
	h.Init()

	e := w.CreateEntity()
	ecs.AddComponent(w, e, Position{})
	ecs.AddComponent(w, e, Velocity{})
	ecs.AddComponent(w, e, Health{})
	w.DestroyEntity(e)

	assert.Equal(t, []string{
		"add position",
		"add position or velocity",
		"add position or velocity",
		"destroy",
		"remove velocity",
	}, events)
}

func TestSystemEventTagRequired(t *testing.T) {
	h := newTestHandle()
	ecs.AddSystem(h.Group(ecs.PhaseRemoveComponent), func() {}).On(ecs.OnAdd[Position]())
	requireInvariant(t, h.Init)
}

func TestSystemReentrancy(t *testing.T) {
	h := newTestHandle()
	w := h.World()
	update := h.Group(ecs.PhaseUpdate)

	outer, inner := 0, 0
	ecs.AddSystem(update, func() {
		outer++
		// both systems of the group are locked, so this runs nothing
		w.Run(update)
	})
	ecs.AddSystem(update, func() { inner++ })
	h.Init()

	h.Update()
	assert.Equal(t, 1, outer)
	assert.Equal(t, 1, inner)

	for _, s := range update.Systems() {
		assert.False(t, s.IsLocked())
	}
}

func TestSystemNestedEventPhase(t *testing.T) {
	h := newTestHandle()
	w := h.World()

	adds := 0
	ecs.AddSystem1(h.Group(ecs.PhaseAddComponent), func(ctx *ecs.Context) {
		adds++
		// adding another component from inside the add handler does not re-enter it
		ctx.AddComponent(Tag("tagged"))
	}).On(ecs.OnAdd[Score](), ecs.OnAdd[Tag]())
	h.Init()

	e := w.CreateEntity()
	ecs.AddComponent(w, e, Score(1))

	assert.Equal(t, 1, adds)
	assert.Equal(t, Tag("tagged"), *ecs.Unpack[Tag](w, e))
}

func TestSystemLock(t *testing.T) {
	h := newTestHandle()
	s := ecs.AddSystem(h.Group(ecs.PhaseUpdate), func() {})

	s.Lock()
	assert.True(t, s.IsLocked())
	requireInvariant(t, s.Lock)
	s.Unlock()
	assert.False(t, s.IsLocked())
}

func TestSystemGroupLimits(t *testing.T) {
	t.Run("adding after init is fatal", func(t *testing.T) {
		h := newTestHandle()
		h.Init()
		requireInvariant(t, func() { ecs.AddSystem(h.Group(ecs.PhaseUpdate), func() {}) })
	})

	t.Run("system cap", func(t *testing.T) {
		cfg := ecs.DefaultConfig()
		cfg.MaxSystems = 2
		h := ecs.NewWorldHandle(ecs.NewComponentRegistry(cfg), nil)
		g := h.Group(ecs.PhaseDraw)
		ecs.AddSystem(g, func() {})
		ecs.AddSystem(g, func() {})
		requireInvariant(t, func() { ecs.AddSystem(g, func() {}) })
	})

	t.Run("init twice is fatal", func(t *testing.T) {
		h := newTestHandle()
		h.Init()
		requireInvariant(t, h.Init)
	})

	t.Run("unregistered component type is fatal at init", func(t *testing.T) {
		h := newTestHandle()
		ecs.AddSystem1(h.Group(ecs.PhaseUpdate), func(*struct{ Unknown int }) {})
		requireInvariant(t, h.Init)
	})
}

func TestSystemPhasesBeforeInit(t *testing.T) {
	h := newTestHandle()
	runs := 0
	ecs.AddSystem(h.Group(ecs.PhaseUpdate), func() { runs++ })

	h.Update()
	assert.Equal(t, 0, runs)

	h.Init()
	h.Update()
	assert.Equal(t, 1, runs)
}

func TestSystemPhases(t *testing.T) {
	h := newTestHandle()
	var order []string
	for _, p := range []ecs.Phase{ecs.PhaseInit, ecs.PhaseUpdate, ecs.PhaseFixedUpdate, ecs.PhaseDraw} {
		ecs.AddSystem(h.Group(p), func() { order = append(order, p.String()) })
	}

	h.Init()
	h.FixedUpdate()
	h.Update()
	h.Draw()

	assert.Equal(t, []string{"init", "fixed-update", "update", "draw"}, order)
	assert.True(t, ecs.PhaseDestroyEntity.IsEvent())
	assert.False(t, ecs.PhaseDraw.IsEvent())
	assert.Len(t, ecs.Phases(), 8)
}

func TestSystemStats(t *testing.T) {
	h := newTestHandle()
	update := h.Group(ecs.PhaseUpdate)

	ecs.AddSystem(update, func() { time.Sleep(time.Millisecond) }).Named("sleeper")
	ecs.AddSystem2(update, moveSystem)
	h.Init()

	stats := update.Stats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Zero(t, stats.TotalExecutions)

	for range 3 {
		h.Update()
	}

	stats = update.Stats()
	assert.Equal(t, ecs.PhaseUpdate, stats.Phase)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)

	sleeper := stats.Systems[0]
	assert.Equal(t, "sleeper", sleeper.Name)
	assert.Equal(t, int64(3), sleeper.ExecutionCount)
	assert.NotZero(t, sleeper.MinDuration)
	assert.LessOrEqual(t, sleeper.MinDuration, sleeper.AvgDuration)
	assert.LessOrEqual(t, sleeper.AvgDuration, sleeper.MaxDuration)
	assert.NotZero(t, sleeper.LastDuration)

	assert.Contains(t, stats.Systems[1].Name, "moveSystem")
	assert.Len(t, h.Stats(), 8)
}

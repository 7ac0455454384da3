package main

import (
	"math/rand/v2"

	"github.com/plus3/lux/ecs"
)

const worldSize = 1000

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current int
}

type Tint struct {
	R, G, B uint8
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Tint](registry)
}

// simulation churns entities: everything moves, health decays every update
// and each destroyed entity queues a replacement, so the live count stays flat
// while indices are recycled continuously.
type simulation struct {
	rng       *rand.Rand
	maxHealth int
	spawned   int64
	destroyed int64
}

func (s *simulation) OnUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem2(g, move).Named("movement")
	ecs.AddSystem2(g, s.decay).Named("decay")
}

func (s *simulation) OnFixedUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem1(g, wrap).Named("wrap")
}

func (s *simulation) OnDestroyEntity(g *ecs.SystemGroup) {
	ecs.AddSystem2(g, s.respawn).Named("respawn").On(ecs.OnDestroy())
}

func move(pos *Position, vel *Velocity) {
	pos.X += vel.DX
	pos.Y += vel.DY
}

func wrap(pos *Position) {
	if pos.X < 0 || pos.X >= worldSize {
		pos.X = float64(int(pos.X+worldSize) % worldSize)
	}
	if pos.Y < 0 || pos.Y >= worldSize {
		pos.Y = float64(int(pos.Y+worldSize) % worldSize)
	}
}

func (s *simulation) decay(ctx *ecs.Context, hp *Health) {
	hp.Current--
	if hp.Current <= 0 {
		ctx.Destroy()
	}
}

func (s *simulation) respawn(ctx *ecs.Context, _ *Health) {
	s.destroyed++
	ctx.Commands().Create(s.components()...)
}

// components returns a random set of components for a new entity. Every
// entity gets Position and Health so decay and respawn keep the population
// stable; Velocity and Tint are present on some.
func (s *simulation) components() []any {
	s.spawned++
	components := []any{
		Position{X: s.rng.Float64() * worldSize, Y: s.rng.Float64() * worldSize},
		Health{Current: 1 + s.rng.IntN(s.maxHealth)},
	}
	if s.rng.IntN(4) != 0 {
		components = append(components, Velocity{DX: s.rng.Float64()*2 - 1, DY: s.rng.Float64()*2 - 1})
	}
	if s.rng.IntN(2) == 0 {
		components = append(components, Tint{R: uint8(s.rng.IntN(256)), G: uint8(s.rng.IntN(256)), B: uint8(s.rng.IntN(256))})
	}
	return components
}

func (s *simulation) populate(w *ecs.World, count int) {
	for range count {
		e := w.CreateEntity()
		for _, c := range s.components() {
			w.AddComponent(e, c)
		}
	}
}

package ecs_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/plus3/lux/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string
type Temperature float64

type GameClock struct {
	Ticks int
}

type Camera struct {
	Zoom float32
}

type Inventory struct {
	Items []string
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry(ecs.DefaultConfig())
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[AI](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Temperature](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[GameClock](registry, ecs.SingletonOnly)
	ecs.RegisterComponent[Camera](registry, ecs.Unique)
	return registry
}

func newTestHandle() *ecs.WorldHandle {
	return ecs.NewWorldHandle(newTestRegistry(), nil)
}

// requireInvariant asserts that fn panics with an ErrInvariant-wrapped error.
func requireInvariant(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, ecs.ErrInvariant), "unexpected panic: %v", err)
	}()
	fn()
}

package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/lux/ecs"
	"github.com/stretchr/testify/assert"
)

func maskOf(capacity int, slots ...ecs.ComponentType) ecs.ComponentMask {
	m := ecs.NewComponentMask(capacity)
	for _, s := range slots {
		m.Set(s)
	}
	return m
}

func TestComponentMask(t *testing.T) {
	t.Run("set and clear round trip", func(t *testing.T) {
		m := ecs.NewComponentMask(128)
		assert.True(t, m.IsEmpty())

		for _, slot := range []ecs.ComponentType{0, 1, 63, 64, 127} {
			m.Set(slot)
			assert.True(t, m.Has(slot))
			m.Clear(slot)
			assert.False(t, m.Has(slot))
		}
		assert.True(t, m.IsEmpty())
	})

	t.Run("subset law", func(t *testing.T) {
		entity := maskOf(128, 1, 5, 70)

		assert.True(t, entity.Matches(ptr(maskOf(128))))
		assert.True(t, entity.Matches(ptr(maskOf(128, 1, 70))))
		assert.True(t, entity.Matches(ptr(maskOf(128, 1, 5, 70))))
		assert.False(t, entity.Matches(ptr(maskOf(128, 1, 2))))
		assert.False(t, entity.Matches(ptr(maskOf(128, 71))))
	})

	t.Run("mismatched capacity is fatal", func(t *testing.T) {
		a := maskOf(64, 1)
		b := maskOf(128, 1)
		requireInvariant(t, func() { a.Matches(&b) })
	})

	t.Run("slot out of range is fatal", func(t *testing.T) {
		m := ecs.NewComponentMask(64)
		requireInvariant(t, func() { m.Set(64) })
	})

	t.Run("slots count and equal", func(t *testing.T) {
		m := maskOf(192, 3, 64, 130)
		assert.Equal(t, 3, m.Count())
		assert.Equal(t, []ecs.ComponentType{3, 64, 130}, slices.Collect(m.Slots()))

		other := maskOf(192, 130, 3, 64)
		assert.True(t, m.Equal(&other))

		other.Clear(64)
		assert.False(t, m.Equal(&other))

		m.Reset()
		assert.True(t, m.IsEmpty())
		assert.Equal(t, 192, m.Capacity())
	})
}

func ptr[T any](v T) *T {
	return &v
}

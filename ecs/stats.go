package ecs

import (
	"cmp"
	"reflect"
	"slices"
)

// WorldStats is a point-in-time summary of a World's contents.
type WorldStats struct {
	EntityCount        int
	ComponentTypeCount int
	ComponentCount     int
	// Components lists every type with at least one live instance, most used first.
	Components     []ComponentStats
	SingletonTypes []string
}

// ComponentStats reports how many instances of one component type are live.
type ComponentStats struct {
	Type     reflect.Type
	Slot     ComponentType
	Count    int
	Capacity int
}

// CollectStats walks the World's storage and summarizes it.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		EntityCount:        w.EntityCount(),
		ComponentTypeCount: w.registry.Len(),
	}

	for slot, store := range w.stores {
		if store == nil || store.Len() == 0 {
			continue
		}
		info := w.registry.entries[slot]
		stats.Components = append(stats.Components, ComponentStats{
			Type:     info.typ,
			Slot:     info.slot,
			Count:    store.Len(),
			Capacity: store.Cap(),
		})
		stats.ComponentCount += store.Len()
	}
	slices.SortStableFunc(stats.Components, func(a, b ComponentStats) int {
		return cmp.Compare(b.Count, a.Count)
	})

	for slot := range w.Mask(w.singleton).Slots() {
		if slot == contextSlot {
			continue
		}
		stats.SingletonTypes = append(stats.SingletonTypes, w.registry.TypeOf(slot).String())
	}
	return stats
}

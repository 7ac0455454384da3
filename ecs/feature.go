package ecs

// Feature is a bundle of systems. A feature implements any subset of the
// interfaces below; AddFeature hands each implemented hook the matching group.
type Feature any

type InitFeature interface {
	OnInit(g *SystemGroup)
}

type UpdateFeature interface {
	OnUpdate(g *SystemGroup)
}

type FixedUpdateFeature interface {
	OnFixedUpdate(g *SystemGroup)
}

type DrawFeature interface {
	OnDraw(g *SystemGroup)
}

type AddComponentFeature interface {
	OnAddComponent(g *SystemGroup)
}

type RemoveComponentFeature interface {
	OnRemoveComponent(g *SystemGroup)
}

type SetComponentFeature interface {
	OnSetComponent(g *SystemGroup)
}

type DestroyEntityFeature interface {
	OnDestroyEntity(g *SystemGroup)
}

// FeatureFunc adapts a function registering systems into a single group to a Feature.
type FeatureFunc struct {
	Phase Phase
	Fn    func(g *SystemGroup)
}

func (h *WorldHandle) addFeature(f Feature) {
	if ff, ok := f.(FeatureFunc); ok {
		ff.Fn(h.groups[ff.Phase])
		return
	}

	matched := false
	if v, ok := f.(InitFeature); ok {
		v.OnInit(h.groups[PhaseInit])
		matched = true
	}
	if v, ok := f.(UpdateFeature); ok {
		v.OnUpdate(h.groups[PhaseUpdate])
		matched = true
	}
	if v, ok := f.(FixedUpdateFeature); ok {
		v.OnFixedUpdate(h.groups[PhaseFixedUpdate])
		matched = true
	}
	if v, ok := f.(DrawFeature); ok {
		v.OnDraw(h.groups[PhaseDraw])
		matched = true
	}
	if v, ok := f.(AddComponentFeature); ok {
		v.OnAddComponent(h.groups[PhaseAddComponent])
		matched = true
	}
	if v, ok := f.(RemoveComponentFeature); ok {
		v.OnRemoveComponent(h.groups[PhaseRemoveComponent])
		matched = true
	}
	if v, ok := f.(SetComponentFeature); ok {
		v.OnSetComponent(h.groups[PhaseSetComponent])
		matched = true
	}
	if v, ok := f.(DestroyEntityFeature); ok {
		v.OnDestroyEntity(h.groups[PhaseDestroyEntity])
		matched = true
	}

	if !matched {
		invariant("feature %T implements no feature hooks", f)
	}
}

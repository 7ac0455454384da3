package ecs

// Phase identifies one of the eight system groups of a WorldHandle.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseUpdate
	PhaseFixedUpdate
	PhaseDraw
	PhaseAddComponent
	PhaseRemoveComponent
	PhaseSetComponent
	PhaseDestroyEntity

	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseInit:            "init",
	PhaseUpdate:          "update",
	PhaseFixedUpdate:     "fixed-update",
	PhaseDraw:            "draw",
	PhaseAddComponent:    "on-add-component",
	PhaseRemoveComponent: "on-remove-component",
	PhaseSetComponent:    "on-set-component",
	PhaseDestroyEntity:   "on-destroy-entity",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// IsEvent reports whether p is triggered by structural changes rather than by the host loop.
func (p Phase) IsEvent() bool {
	return p >= PhaseAddComponent && p < phaseCount
}

// Phases lists every phase in dispatch order.
func Phases() []Phase {
	phases := make([]Phase, phaseCount)
	for i := range phases {
		phases[i] = Phase(i)
	}
	return phases
}

// eventKind is the tag a system needs to be a member of an event phase.
func (p Phase) eventKind() EventKind {
	switch p {
	case PhaseAddComponent:
		return EventAdd
	case PhaseRemoveComponent:
		return EventRemove
	case PhaseSetComponent:
		return EventSet
	case PhaseDestroyEntity:
		return EventDestroy
	}
	return 0
}

package ecs

import (
	"time"

	"go.uber.org/zap"
)

// GroupStats provides execution statistics for a system group.
type GroupStats struct {
	Phase           Phase
	SystemCount     int
	TotalExecutions int64
	TotalDuration   time.Duration
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// SystemGroup is an ordered list of systems run together for one phase.
// Systems are added before the group is registered against a World and run
// in the order they were added.
type SystemGroup struct {
	phase      Phase
	systems    []*System
	maxSystems int
	registered bool
	logger     *zap.Logger
}

// NewSystemGroup creates an empty group for phase holding at most maxSystems systems.
func NewSystemGroup(phase Phase, maxSystems int, logger *zap.Logger) *SystemGroup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemGroup{
		phase:      phase,
		systems:    make([]*System, 0, 8),
		maxSystems: maxSystems,
		logger:     logger,
	}
}

func (g *SystemGroup) add(s *System) *System {
	if g.registered {
		invariant("cannot add system %s to %s group after registration", s.name, g.phase)
	}
	if len(g.systems) >= g.maxSystems {
		invariant("too many systems in %s group: limit is %d", g.phase, g.maxSystems)
	}
	g.systems = append(g.systems, s)
	return s
}

// Register resolves every system against w and computes their initial
// entity sets. Systems of an event phase must be tagged with an event of
// that phase's kind. A group can be registered once.
func (g *SystemGroup) Register(w *World) {
	if g.registered {
		invariant("%s group registered twice", g.phase)
	}

	if g.phase.IsEvent() {
		kind := g.phase.eventKind()
		for _, s := range g.systems {
			if !s.hasEventKind(kind) {
				invariant("system %s in %s group has no %s event tag", s.name, g.phase, kind)
			}
		}
	}

	for _, s := range g.systems {
		s.register(w)
	}
	g.registered = true

	g.logger.Debug("registered system group",
		zap.Stringer("phase", g.phase),
		zap.Int("systems", len(g.systems)),
	)
}

func (g *SystemGroup) Phase() Phase {
	return g.phase
}

func (g *SystemGroup) Len() int {
	return len(g.systems)
}

// Systems returns the group's systems in run order.
func (g *SystemGroup) Systems() []*System {
	return g.systems
}

func (g *SystemGroup) Registered() bool {
	return g.registered
}

func (g *SystemGroup) componentAdded(e Entity, mask *ComponentMask) {
	for _, s := range g.systems {
		s.TryAddEntity(e, mask)
	}
}

func (g *SystemGroup) componentRemoved(e Entity, mask *ComponentMask) {
	for _, s := range g.systems {
		s.TryRemoveEntity(e, mask)
	}
}

// Stats returns statistics about system execution.
func (g *SystemGroup) Stats() GroupStats {
	stats := GroupStats{
		Phase:       g.phase,
		SystemCount: len(g.systems),
		Systems:     make([]SystemStats, len(g.systems)),
	}
	for i, s := range g.systems {
		st := s.stats.export()
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
		stats.TotalDuration += st.TotalDuration
	}
	return stats
}

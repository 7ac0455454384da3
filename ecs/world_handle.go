package ecs

import (
	"go.uber.org/zap"
)

// WorldHandle pairs a World with the eight phase groups that run against it.
// The World reports every mask change to its handle, which keeps the groups'
// entity sets current.
type WorldHandle struct {
	registry *ComponentRegistry
	logger   *zap.Logger
	world    *World
	groups   [phaseCount]*SystemGroup
	commands *Commands

	initialized bool
}

// NewWorldHandle creates a World on registry with empty phase groups.
// A nil logger disables logging.
func NewWorldHandle(registry *ComponentRegistry, logger *zap.Logger) *WorldHandle {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &WorldHandle{
		registry: registry,
		logger:   logger,
		commands: newCommands(),
	}
	maxSystems := registry.Config().MaxSystems
	for p := range phaseCount {
		h.groups[p] = NewSystemGroup(p, maxSystems, logger.With(zap.Stringer("phase", p)))
	}
	// groups must exist before the World creates its singleton entity
	h.world = newWorld(h, registry, logger.With(zap.String("component", "world")))
	return h
}

func (h *WorldHandle) World() *World {
	return h.world
}

func (h *WorldHandle) Registry() *ComponentRegistry {
	return h.registry
}

// Group returns the system group of phase p.
func (h *WorldHandle) Group(p Phase) *SystemGroup {
	return h.groups[p]
}

// Commands returns the handle's deferred mutation buffer, flushed after every
// Init, Update, FixedUpdate and Draw.
func (h *WorldHandle) Commands() *Commands {
	return h.commands
}

// AddFeature lets each feature add its systems to the groups it hooks into.
func (h *WorldHandle) AddFeature(features ...Feature) *WorldHandle {
	for _, f := range features {
		h.addFeature(f)
	}
	return h
}

func (h *WorldHandle) Initialized() bool {
	return h.initialized
}

// Init registers every group against the World, then runs the init group.
// Calling Init twice panics.
func (h *WorldHandle) Init() {
	if h.initialized {
		invariant("world handle initialized twice")
	}
	h.initialized = true

	systems := 0
	for _, g := range h.groups {
		g.Register(h.world)
		systems += g.Len()
	}
	h.logger.Info("world initialized",
		zap.Int("systems", systems),
		zap.Int("entities", h.world.EntityCount()),
	)

	h.runPhase(PhaseInit)
}

func (h *WorldHandle) Update() {
	h.runPhase(PhaseUpdate)
}

func (h *WorldHandle) FixedUpdate() {
	h.runPhase(PhaseFixedUpdate)
}

func (h *WorldHandle) Draw() {
	h.runPhase(PhaseDraw)
}

func (h *WorldHandle) runPhase(p Phase) {
	h.world.Run(h.groups[p])
	h.commands.Flush(h.world)
}

func (h *WorldHandle) componentAdded(e Entity, mask *ComponentMask) {
	for _, g := range h.groups {
		g.componentAdded(e, mask)
	}
}

func (h *WorldHandle) componentRemoved(e Entity, mask *ComponentMask) {
	for _, g := range h.groups {
		g.componentRemoved(e, mask)
	}
}

// Stats returns execution statistics for every group in phase order.
func (h *WorldHandle) Stats() []GroupStats {
	stats := make([]GroupStats, len(h.groups))
	for i, g := range h.groups {
		stats[i] = g.Stats()
	}
	return stats
}

package ecs

import "go.uber.org/zap"

// Scene runs a set of Worlds sharing one component registry. Each World has
// its own storage and systems; the scene forwards the phase entry points to
// every World in creation order.
type Scene struct {
	registry *ComponentRegistry
	logger   *zap.Logger
	handles  []*WorldHandle
}

// NewScene creates an empty scene. A nil logger disables logging.
func NewScene(registry *ComponentRegistry, logger *zap.Logger) *Scene {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scene{
		registry: registry,
		logger:   logger,
	}
}

// CreateWorld adds a World to the scene with the given features installed.
func (s *Scene) CreateWorld(features ...Feature) *WorldHandle {
	h := NewWorldHandle(s.registry, s.logger.With(zap.Int("world", len(s.handles))))
	h.AddFeature(features...)
	s.handles = append(s.handles, h)
	return h
}

// Worlds returns the scene's world handles in creation order.
func (s *Scene) Worlds() []*WorldHandle {
	return s.handles
}

func (s *Scene) Registry() *ComponentRegistry {
	return s.registry
}

// Init initializes every World that has not been initialized yet, so Worlds
// created after a previous Init can be brought up with another call.
func (s *Scene) Init() {
	for _, h := range s.handles {
		if !h.Initialized() {
			h.Init()
		}
	}
}

func (s *Scene) Update() {
	for _, h := range s.handles {
		h.Update()
	}
}

func (s *Scene) FixedUpdate() {
	for _, h := range s.handles {
		h.FixedUpdate()
	}
}

func (s *Scene) Draw() {
	for _, h := range s.handles {
		h.Draw()
	}
}

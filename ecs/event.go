package ecs

import (
	"fmt"
	"reflect"
)

// EventKind is the structural change an event-phase system reacts to.
type EventKind uint8

const (
	EventAdd EventKind = iota + 1
	EventRemove
	EventSet
	EventDestroy
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventSet:
		return "set"
	case EventDestroy:
		return "destroy"
	}
	return "none"
}

// Event describes a structural change. Systems are tagged with events through
// System.On, and the World selects event-phase systems by filtering with the
// event that actually happened.
type Event struct {
	Kind EventKind
	// Type is the component type involved; nil for EventDestroy.
	Type reflect.Type
}

// OnAdd tags a system that reacts to T being added to an entity.
func OnAdd[T any]() Event {
	return Event{Kind: EventAdd, Type: reflect.TypeFor[T]()}
}

// OnRemove tags a system that reacts to T being removed from an entity.
func OnRemove[T any]() Event {
	return Event{Kind: EventRemove, Type: reflect.TypeFor[T]()}
}

// OnSet tags a system that reacts to an existing T being overwritten.
func OnSet[T any]() Event {
	return Event{Kind: EventSet, Type: reflect.TypeFor[T]()}
}

// OnDestroy tags a system that reacts to any entity being destroyed.
func OnDestroy() Event {
	return Event{Kind: EventDestroy}
}

func (ev Event) String() string {
	if ev.Type == nil {
		return ev.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", ev.Kind, ev.Type)
}

// SystemFilter decides whether a system takes part in a run.
type SystemFilter interface {
	Filter(s *System) bool
}

// SystemFilterFunc adapts a function to SystemFilter.
type SystemFilterFunc func(s *System) bool

func (f SystemFilterFunc) Filter(s *System) bool {
	return f(s)
}

// Filter selects systems tagged for ev.
func (ev Event) Filter(s *System) bool {
	for _, tag := range s.events {
		if tag.Kind != ev.Kind {
			continue
		}
		if ev.Kind == EventDestroy || tag.Type == ev.Type {
			return true
		}
	}
	return false
}

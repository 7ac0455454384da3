package debugui

import (
	"github.com/plus3/lux/ecs"
)

// Selection is the singleton holding the entity picked in the entity browser.
type Selection struct {
	Entity ecs.Entity
	Valid  bool
}

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selected ecs.Entity
}

type StorageViewerComponent struct {
	cache         *StorageViewerCache
	selectedType  string
	sortColumn    int
	sortAscending bool
}

type SystemStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	timer         *FrameTimer
}

type SystemDebuggerComponent struct {
	selectedComponentTypes map[string]bool
}

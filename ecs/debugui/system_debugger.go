package debugui

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

// SystemMatch is a system whose component types are all in the selected set.
type SystemMatch struct {
	Phase  ecs.Phase
	Name   string
	Types  []string
	Events []ecs.Event
}

func NewSystemDebuggerComponent() SystemDebuggerComponent {
	return SystemDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
	}
}

// RegisteredTypeNames lists the names of every registered component type
// except the built-in Context, sorted.
func RegisteredTypeNames(r *ecs.ComponentRegistry) []string {
	names := make([]string, 0, r.Len())
	for slot := 1; slot < r.Len(); slot++ {
		names = append(names, r.TypeOf(ecs.ComponentType(slot)).String())
	}
	slices.Sort(names)
	return names
}

// MatchingEntities counts the live entities carrying every type in types.
func MatchingEntities(w *ecs.World, types []reflect.Type) int {
	required := ecs.NewComponentMask(w.Registry().Config().MaxComponentTypes)
	for _, t := range types {
		slot, ok := w.Registry().Lookup(t)
		if !ok {
			return 0
		}
		required.Set(slot)
	}

	count := 0
	for e := range w.Entities() {
		if w.Mask(e).Matches(&required) {
			count++
		}
	}
	return count
}

// MatchingSystems lists, across every phase, the systems whose component
// types are all in types. Context never needs to be selected.
func MatchingSystems(h *ecs.WorldHandle, types []reflect.Type) []SystemMatch {
	contextType := reflect.TypeFor[ecs.Context]()
	var matches []SystemMatch
	for _, p := range ecs.Phases() {
		for _, s := range h.Group(p).Systems() {
			ok := true
			names := make([]string, 0, s.Arity())
			for _, t := range s.Types() {
				names = append(names, t.String())
				if t != contextType && !slices.Contains(types, t) {
					ok = false
				}
			}
			if ok {
				matches = append(matches, SystemMatch{Phase: p, Name: s.Name(), Types: names, Events: s.Events()})
			}
		}
	}
	return matches
}

func (sd *SystemDebuggerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("System Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		sd.selectedComponentTypes = make(map[string]bool)
	}

	typeMap := make(map[string]reflect.Type)
	for slot := 1; slot < w.Registry().Len(); slot++ {
		t := w.Registry().TypeOf(ecs.ComponentType(slot))
		typeMap[t.String()] = t
	}

	for _, compType := range RegisteredTypeNames(w.Registry()) {
		selected := sd.selectedComponentTypes[compType]
		if imgui.Checkbox(compType, &selected) {
			if selected {
				sd.selectedComponentTypes[compType] = true
			} else {
				delete(sd.selectedComponentTypes, compType)
			}
		}
	}

	imgui.Separator()

	selectedTypes := make([]reflect.Type, 0, len(sd.selectedComponentTypes))
	for typeName := range sd.selectedComponentTypes {
		if t, ok := typeMap[typeName]; ok {
			selectedTypes = append(selectedTypes, t)
		}
	}

	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	systems := MatchingSystems(w.Handle(), selectedTypes)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", MatchingEntities(w, selectedTypes)))
	imgui.Text(fmt.Sprintf("Matching Systems: %d", len(systems)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemMatchTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Events")
			imgui.TableHeadersRow()

			for _, m := range systems {
				imgui.TableNextRow()
				imgui.TableSetColumnIndex(0)
				imgui.Text(m.Phase.String())
				imgui.TableSetColumnIndex(1)
				imgui.Text(m.Name)
				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%v", m.Types))
				imgui.TableSetColumnIndex(3)
				imgui.Text(fmt.Sprintf("%v", m.Events))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

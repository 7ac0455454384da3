// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiFeature adds the systems that drive ImGui from a World. Both run in the
// update phase, which hosts call between the ImGui backend's BeginFrame and
// EndFrame.
type ImguiFeature struct{}

// OnUpdate updates the ImguiInputState singleton, then calls every ImguiItem's
// render function.
func (ImguiFeature) OnUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem1(g, updateInputState).Named("debugui.input")
	ecs.AddSystem1(g, renderItem).Named("debugui.items")
}

func updateInputState(state *ImguiInputState) {
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()
}

func renderItem(item *ImguiItem) {
	if item.Render != nil {
		item.Render()
	}
}

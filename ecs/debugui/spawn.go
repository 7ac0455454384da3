package debugui

import "github.com/plus3/lux/ecs"

// SpawnDebugUI creates one entity per debug panel and the Selection singleton.
func SpawnDebugUI(w *ecs.World) {
	ecs.SetSingleton(w, Selection{})

	for _, panel := range []any{
		NewEntityBrowserComponent(100),
		NewComponentInspectorComponent(),
		NewStorageViewerComponent(),
		NewSystemStatsComponent(120),
		NewSystemDebuggerComponent(),
	} {
		w.AddComponent(w.CreateEntity(), panel)
	}
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry, ecs.SingletonOnly)
	ecs.RegisterComponent[Selection](registry, ecs.SingletonOnly)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[StorageViewerComponent](registry)
	ecs.RegisterComponent[SystemStatsComponent](registry)
	ecs.RegisterComponent[SystemDebuggerComponent](registry)
}

// PanelFeature renders every spawned debug panel during the update phase.
type PanelFeature struct{}

func (PanelFeature) OnUpdate(g *ecs.SystemGroup) {
	ecs.AddSystem2(g, func(ctx *ecs.Context, eb *EntityBrowserComponent) {
		eb.Render(ctx.World(), selectionOf(ctx.World()))
	}).Named("debugui.entity-browser")

	ecs.AddSystem2(g, func(ctx *ecs.Context, ci *ComponentInspectorComponent) {
		ci.Render(ctx.World(), selectionOf(ctx.World()))
	}).Named("debugui.component-inspector")

	ecs.AddSystem2(g, func(ctx *ecs.Context, sv *StorageViewerComponent) {
		sv.Render(ctx.World())
	}).Named("debugui.storage-viewer")

	ecs.AddSystem2(g, func(ctx *ecs.Context, ss *SystemStatsComponent) {
		ss.Render(ctx.World())
	}).Named("debugui.system-stats")

	ecs.AddSystem2(g, func(ctx *ecs.Context, sd *SystemDebuggerComponent) {
		sd.Render(ctx.World())
	}).Named("debugui.system-debugger")
}

func selectionOf(w *ecs.World) *Selection {
	if sel, ok := ecs.UnpackSingleton[Selection](w); ok {
		return sel
	}
	ecs.SetSingleton(w, Selection{})
	sel, _ := ecs.UnpackSingleton[Selection](w)
	return sel
}

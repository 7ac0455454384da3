// Package ebiten runs an ecs.Scene inside the Ebiten game loop, with an
// optional Dear ImGui overlay.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/lux/ecs"
	"github.com/plus3/lux/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Screen is the singleton holding the image draw-phase systems render to.
// It is replaced before every draw phase.
type Screen struct {
	Image *ebiten.Image
}

// RegisterComponents registers the components Game writes into every World.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Screen](registry, ecs.SingletonOnly)
	ecs.RegisterComponent[debugui.ImguiInputState](registry, ecs.SingletonOnly)
}

// Game implements ebiten.Game on top of a Scene. Each Ebiten tick runs the
// fixed-update and update phases of every World, each frame runs the draw
// phase. Ebiten calls Update at a fixed rate, which is what the fixed-update
// phase relies on.
type Game struct {
	scene   *ecs.Scene
	backend *ImguiBackend
	width   int
	height  int
}

// NewGame creates a Game driving scene. backend may be nil to run without ImGui.
// Worlds not yet initialized are initialized on the first Update.
func NewGame(scene *ecs.Scene, backend *ImguiBackend) *Game {
	return &Game{scene: scene, backend: backend}
}

func (g *Game) Scene() *ecs.Scene {
	return g.scene
}

func (g *Game) Update() error {
	g.scene.Init()
	if g.backend != nil {
		for _, h := range g.scene.Worlds() {
			if _, ok := ecs.UnpackSingleton[debugui.ImguiInputState](h.World()); !ok {
				ecs.SetSingleton(h.World(), debugui.ImguiInputState{})
			}
		}
		g.backend.BeginFrame()
	}

	g.scene.FixedUpdate()
	g.scene.Update()

	if g.backend != nil {
		g.backend.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, h := range g.scene.Worlds() {
		ecs.SetSingleton(h.World(), Screen{Image: screen})
	}
	g.scene.Draw()

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Size returns the last layout size reported by Ebiten.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

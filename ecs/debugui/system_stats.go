package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

func NewSystemStatsComponent(historyFrames int) SystemStatsComponent {
	return SystemStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		timer:         NewFrameTimer(),
	}
}

// Record pushes one frame time, in milliseconds, into the ring buffer.
func (ss *SystemStatsComponent) Record(frameMillis float32) {
	ss.frameHistory[ss.frameIndex] = frameMillis
	ss.frameIndex = (ss.frameIndex + 1) % ss.historyFrames
}

// AverageFrameTime is the mean of the recorded frame history in milliseconds.
func (ss *SystemStatsComponent) AverageFrameTime() float32 {
	var total float32
	for _, ft := range ss.frameHistory {
		total += ft
	}
	return total / float32(ss.historyFrames)
}

func (ss *SystemStatsComponent) Render(w *ecs.World) {
	if !imgui.BeginV("System Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ss.Record(ss.timer.GetDeltaTime() * 1000.0)

	stats := w.CollectStats()

	imgui.Text(fmt.Sprintf("Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Component Types: %d", stats.ComponentTypeCount))
	imgui.Text(fmt.Sprintf("Components: %d", stats.ComponentCount))

	avg := ss.AverageFrameTime()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ss.frameHistory[0], int32(len(ss.frameHistory)))

	for _, group := range w.Handle().Stats() {
		if group.SystemCount == 0 {
			continue
		}
		if !imgui.TreeNodeStr(fmt.Sprintf("%s (%d systems)", group.Phase, group.SystemCount)) {
			continue
		}

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range group.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}

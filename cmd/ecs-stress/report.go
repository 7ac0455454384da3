package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/lux/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Worlds   int
	Config   ecs.Config

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	World          []WorldReport
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// WorldReport is the end-of-run state of one world in the scene.
type WorldReport struct {
	Index     int
	Stats     ecs.WorldStats
	Groups    []ecs.GroupStats
	Spawned   int64
	Destroyed int64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// MemoryRow is one runtime.MemStats counter sampled before and after the run.
type MemoryRow struct {
	Name       string
	Start, End uint64
	Bytes      bool
}

func (m MemoryRow) Delta() string {
	d := int64(m.End) - int64(m.Start)
	if m.Bytes {
		return mib(d)
	}
	return fmt.Sprintf("%+d", d)
}

func (m MemoryRow) StartText() string { return m.format(m.Start) }

func (m MemoryRow) EndText() string { return m.format(m.End) }

func (m MemoryRow) format(v uint64) string {
	if m.Bytes {
		return mib(int64(v))
	}
	return fmt.Sprintf("%d", v)
}

func mib(b int64) string {
	return fmt.Sprintf("%.2f MiB", float64(b)/(1<<20))
}

// Memory lists the heap, allocation, system and GC counters of the run.
func (r *Report) Memory() []MemoryRow {
	return []MemoryRow{
		{Name: "Heap Alloc", Start: r.MemStatsStart.HeapAlloc, End: r.MemStatsEnd.HeapAlloc, Bytes: true},
		{Name: "Total Alloc", Start: r.MemStatsStart.TotalAlloc, End: r.MemStatsEnd.TotalAlloc, Bytes: true},
		{Name: "Sys Memory", Start: r.MemStatsStart.Sys, End: r.MemStatsEnd.Sys, Bytes: true},
		{Name: "Mallocs", Start: r.MemStatsStart.Mallocs, End: r.MemStatsEnd.Mallocs},
		{Name: "Num GC", Start: uint64(r.MemStatsStart.NumGC), End: uint64(r.MemStatsEnd.NumGC)},
	}
}

func (r *Report) GCPause() time.Duration {
	return time.Duration(r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs)
}

func (r *Report) GCCycles() uint32 {
	return r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Entities per World:** {{.Entities}}
- **Worlds:** {{.Worlds}}
- **Limits:** max_entities={{.Config.MaxEntities}} max_component_types={{.Config.MaxComponentTypes}} max_systems={{.Config.MaxSystems}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P99:** {{.UpdateTime.P99}}
{{range .World}}
## World {{.Index}}
- **Live Entities:** {{.Stats.EntityCount}}
- **Live Components:** {{.Stats.ComponentCount}}
- **Spawned / Destroyed:** {{.Spawned}} / {{.Destroyed}}

| Component | Count | Capacity |
|---|---|---|
{{- range .Stats.Components}}
| {{.Type}} | {{.Count}} | {{.Capacity}} |
{{- end}}
{{range .Groups}}{{if .SystemCount}}
### Phase {{.Phase}} ({{.TotalExecutions}} runs, {{.TotalDuration}})

| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}
{{end}}{{end}}{{end}}
## Memory Usage
| Metric | Start | End | Delta |
|---|---|---|---|
{{- range .Memory}}
| {{.Name}} | {{.StartText}} | {{.EndText}} | {{.Delta}} |
{{- end}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.GCPause}}
- **Num GC Cycles:** {{.GCCycles}}
{{end}}`

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

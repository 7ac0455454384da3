package debugui

import (
	"reflect"
	"sync"
	"testing"

	"github.com/plus3/lux/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float32
}

type label struct {
	Text    string
	Visible bool
}

type stats struct {
	Level  int
	Limits struct {
		Min, Max uint16
	}
	Owner *label
	tags  []string
}

func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	r := ecs.NewComponentRegistry(ecs.DefaultConfig())
	ecs.RegisterComponent[position](r)
	ecs.RegisterComponent[label](r)
	ecs.RegisterComponent[stats](r)
	RegisterDebugUIComponents(r)
	return ecs.NewWorldHandle(r, nil).World()
}

func TestBuildEntityRows(t *testing.T) {
	w := newTestWorld(t)
	a := w.CreateEntity()
	ecs.AddComponent(w, a, position{X: 1})
	b := w.CreateEntity()
	ecs.AddComponent(w, b, position{})
	ecs.AddComponent(w, b, label{Text: "b"})

	rows := BuildEntityRows(w)
	require.Len(t, rows, 3, "singleton entity is listed too")

	byEntity := make(map[ecs.Entity]EntityInfo)
	for _, row := range rows {
		byEntity[row.Entity] = row
	}
	assert.Equal(t, 2, byEntity[a].ComponentCount)
	assert.Equal(t, 3, byEntity[b].ComponentCount)
	assert.Contains(t, byEntity[b].ComponentTypes, "debugui.label")
	assert.Contains(t, byEntity[b].ComponentTypes, "ecs.Context")
}

func TestFilterEntityRows(t *testing.T) {
	w := newTestWorld(t)
	a := w.CreateEntity()
	ecs.AddComponent(w, a, position{})
	b := w.CreateEntity()
	ecs.AddComponent(w, b, label{})

	rows := BuildEntityRows(w)
	assert.Len(t, FilterEntityRows(rows, ""), len(rows))

	filtered := FilterEntityRows(rows, "LABEL")
	require.Len(t, filtered, 1)
	assert.Equal(t, b, filtered[0].Entity)

	filtered = FilterEntityRows(rows, a.String())
	require.NotEmpty(t, filtered)
	assert.Equal(t, a, filtered[0].Entity)

	assert.Empty(t, FilterEntityRows(rows, "nothing-matches"))
}

func TestSortEntityRows(t *testing.T) {
	rows := []EntityInfo{
		{Entity: ecs.NewEntity(3, 0), ComponentCount: 1},
		{Entity: ecs.NewEntity(1, 2), ComponentCount: 3},
		{Entity: ecs.NewEntity(2, 1), ComponentCount: 2},
	}

	SortEntityRows(rows, entityColumnID, true)
	assert.Equal(t, uint32(1), rows[0].Entity.Index())
	assert.Equal(t, uint32(3), rows[2].Entity.Index())

	SortEntityRows(rows, entityColumnCount, false)
	assert.Equal(t, 3, rows[0].ComponentCount)
	assert.Equal(t, 1, rows[2].ComponentCount)

	SortEntityRows(rows, entityColumnGeneration, true)
	assert.Equal(t, uint32(0), rows[0].Entity.Generation())
}

func TestBuildStorageRows(t *testing.T) {
	w := newTestWorld(t)
	for range 3 {
		ecs.AddComponent(w, w.CreateEntity(), position{})
	}
	ecs.AddComponent(w, w.CreateEntity(), label{})
	ecs.SetSingleton(w, Selection{})

	rows := BuildStorageRows(w)
	byType := make(map[string]StorageInfo)
	for _, row := range rows {
		byType[row.Type] = row
	}

	assert.Equal(t, 3, byType["debugui.position"].Count)
	assert.Equal(t, 1, byType["debugui.label"].Count)
	assert.Equal(t, "singleton", flagString(byType["debugui.Selection"].Flags))
	assert.Empty(t, flagString(byType["debugui.label"].Flags))

	SortStorageRows(rows, storageColumnType, true)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Type, rows[i].Type)
	}
}

func TestSetComponentField(t *testing.T) {
	r := ecs.NewComponentRegistry(ecs.DefaultConfig())
	ecs.RegisterComponent[position](r)
	ecs.RegisterComponent[stats](r)
	ecs.RegisterComponent[label](r)

	sets := 0
	h := ecs.NewWorldHandle(r, nil).AddFeature(ecs.FeatureFunc{
		Phase: ecs.PhaseSetComponent,
		Fn: func(g *ecs.SystemGroup) {
			ecs.AddSystem1(g, func(*stats) { sets++ }).On(ecs.OnSet[stats]())
		},
	})
	h.Init()
	w := h.World()

	e := w.CreateEntity()
	owner := &label{Text: "owner"}
	ecs.AddComponent(w, e, stats{Level: 1, Owner: owner})
	statsType := reflect.TypeFor[stats]()

	require.True(t, SetComponentField(w, e, statsType, []int{0}, int64(7)))
	assert.Equal(t, 7, ecs.Unpack[stats](w, e).Level)
	assert.Equal(t, 1, sets)

	require.True(t, SetComponentField(w, e, statsType, []int{1, 1}, uint64(40)))
	assert.Equal(t, uint16(40), ecs.Unpack[stats](w, e).Limits.Max)
	assert.Same(t, owner, ecs.Unpack[stats](w, e).Owner)

	assert.False(t, SetComponentField(w, e, statsType, []int{0}, "not an int"))
	assert.False(t, SetComponentField(w, e, statsType, []int{9}, int64(1)))
	assert.False(t, SetComponentField(w, e, statsType, []int{2}, int64(1)), "pointer fields are read-only")
	assert.False(t, SetComponentField(w, e, reflect.TypeFor[label](), []int{0}, "x"), "component not present")
	assert.Equal(t, 2, sets)

	ecs.AddComponent(w, e, label{})
	require.True(t, SetComponentField(w, e, reflect.TypeFor[label](), []int{1}, true))
	assert.True(t, ecs.Unpack[label](w, e).Visible)
}

func TestMatchingEntitiesAndSystems(t *testing.T) {
	r := ecs.NewComponentRegistry(ecs.DefaultConfig())
	ecs.RegisterComponent[position](r)
	ecs.RegisterComponent[label](r)

	h := ecs.NewWorldHandle(r, nil).AddFeature(ecs.FeatureFunc{
		Phase: ecs.PhaseUpdate,
		Fn: func(g *ecs.SystemGroup) {
			ecs.AddSystem1(g, func(*position) {}).Named("positions")
			ecs.AddSystem2(g, func(*ecs.Context, *label) {}).Named("labels")
			ecs.AddSystem2(g, func(*position, *label) {}).Named("both")
		},
	})
	h.Init()
	w := h.World()

	ecs.AddComponent(w, w.CreateEntity(), position{})
	both := w.CreateEntity()
	ecs.AddComponent(w, both, position{})
	ecs.AddComponent(w, both, label{})

	posType := reflect.TypeFor[position]()
	labelType := reflect.TypeFor[label]()

	assert.Equal(t, 2, MatchingEntities(w, []reflect.Type{posType}))
	assert.Equal(t, 1, MatchingEntities(w, []reflect.Type{posType, labelType}))
	assert.Equal(t, 0, MatchingEntities(w, []reflect.Type{reflect.TypeFor[stats]()}))

	names := func(ms []SystemMatch) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name
		}
		return out
	}
	assert.Equal(t, []string{"positions"}, names(MatchingSystems(h, []reflect.Type{posType})))
	assert.Equal(t, []string{"labels"}, names(MatchingSystems(h, []reflect.Type{labelType})))
	assert.Equal(t, []string{"positions", "labels", "both"}, names(MatchingSystems(h, []reflect.Type{posType, labelType})))

	assert.Equal(t, []string{"debugui.label", "debugui.position"}, RegisteredTypeNames(r))
}

func TestSpawnDebugUI(t *testing.T) {
	w := newTestWorld(t)
	SpawnDebugUI(w)

	assert.Equal(t, 1, ecs.Count[EntityBrowserComponent](w))
	assert.Equal(t, 1, ecs.Count[ComponentInspectorComponent](w))
	assert.Equal(t, 1, ecs.Count[StorageViewerComponent](w))
	assert.Equal(t, 1, ecs.Count[SystemStatsComponent](w))
	assert.Equal(t, 1, ecs.Count[SystemDebuggerComponent](w))

	sel := selectionOf(w)
	assert.False(t, sel.Valid)
	sel.Valid = true
	assert.True(t, selectionOf(w).Valid)
}

func TestSystemStatsHistory(t *testing.T) {
	ss := NewSystemStatsComponent(4)
	assert.Zero(t, ss.AverageFrameTime())

	for _, ms := range []float32{10, 20, 30, 40, 50} {
		ss.Record(ms)
	}
	// 10 was overwritten by 50
	assert.InDelta(t, 35.0, ss.AverageFrameTime(), 0.001)
}

type tagged struct {
	ID     uint32 `debug:"readonly"`
	Secret string `debug:"-"`
	Scale  float64
	Items  []int
}

func TestFieldCache(t *testing.T) {
	fc := newFieldCache()
	fields := fc.Fields(reflect.TypeFor[stats]())

	require.Len(t, fields, 3, "unexported fields are skipped")
	assert.Equal(t, "Level", fields[0].Name)
	assert.True(t, fields[0].Editable)
	assert.True(t, fields[1].IsStruct)
	assert.False(t, fields[1].Editable)
	assert.Equal(t, "Owner", fields[2].Name)
	assert.True(t, fields[2].IsPointer)
	assert.False(t, fields[2].Editable)
	assert.Equal(t, reflect.TypeFor[label](), fields[2].Type)

	fields = fc.Fields(reflect.TypeFor[tagged]())
	require.Len(t, fields, 3)
	assert.Equal(t, "ID", fields[0].Name)
	assert.False(t, fields[0].Editable, "readonly tag")
	assert.Equal(t, "Scale", fields[1].Name)
	assert.Equal(t, 2, fields[1].Index)
	assert.True(t, fields[1].Editable)
	assert.Equal(t, reflect.Slice, fields[2].Kind)
	assert.False(t, fields[2].Editable)

	assert.Empty(t, fc.Fields(reflect.TypeFor[int]()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, fc.Fields(reflect.TypeFor[label]()), 2)
		}()
	}
	wg.Wait()
}

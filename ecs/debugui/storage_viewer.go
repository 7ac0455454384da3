package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

// StorageInfo is one row of the storage viewer: a component type and its live instances.
type StorageInfo struct {
	Type     string
	Slot     ecs.ComponentType
	Count    int
	Capacity int
	Flags    ecs.ComponentFlags
}

const (
	storageColumnSlot = iota
	storageColumnType
	storageColumnCapacity
	storageColumnCount
)

type StorageViewerCache struct {
	storages []StorageInfo
}

func NewStorageViewerComponent() StorageViewerComponent {
	return StorageViewerComponent{
		cache:         &StorageViewerCache{},
		sortColumn:    storageColumnCount,
		sortAscending: false,
	}
}

// BuildStorageRows lists every component type with live instances in w.
func BuildStorageRows(w *ecs.World) []StorageInfo {
	stats := w.CollectStats()
	rows := make([]StorageInfo, 0, len(stats.Components))
	for _, c := range stats.Components {
		rows = append(rows, StorageInfo{
			Type:     c.Type.String(),
			Slot:     c.Slot,
			Count:    c.Count,
			Capacity: c.Capacity,
			Flags:    w.Registry().Flags(c.Slot),
		})
	}
	return rows
}

// SortStorageRows orders rows by one of the viewer's columns.
func SortStorageRows(rows []StorageInfo, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b StorageInfo) int {
		var c int
		switch column {
		case storageColumnSlot:
			c = cmp.Compare(a.Slot, b.Slot)
		case storageColumnType:
			c = strings.Compare(a.Type, b.Type)
		case storageColumnCapacity:
			c = cmp.Compare(a.Capacity, b.Capacity)
		default:
			c = cmp.Compare(a.Count, b.Count)
		}
		if !ascending {
			return -c
		}
		return c
	})
}

func flagString(flags ecs.ComponentFlags) string {
	switch {
	case flags&ecs.SingletonOnly != 0:
		return "singleton"
	case flags&ecs.Unique != 0:
		return "unique"
	}
	return ""
}

func (sv *StorageViewerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Storage Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sv.cache.storages = BuildStorageRows(w)
	SortStorageRows(sv.cache.storages, sv.sortColumn, sv.sortAscending)

	maxCount := 0
	for _, s := range sv.cache.storages {
		maxCount = max(maxCount, s.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("StorageTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Capacity")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sv.sortColumn = int(spec.ColumnIndex())
			sv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortStorageRows(sv.cache.storages, sv.sortColumn, sv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, s := range sv.cache.storages {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", s.Slot), sv.selectedType == s.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sv.selectedType = s.Type
			}

			imgui.TableNextColumn()
			if flag := flagString(s.Flags); flag != "" {
				imgui.Text(fmt.Sprintf("%s (%s)", s.Type, flag))
			} else {
				imgui.Text(s.Type)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.Capacity))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.Count))

			if maxCount > 0 {
				barWidth := float32(s.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

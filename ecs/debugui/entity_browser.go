package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	Entity         ecs.Entity
	ComponentTypes []string
	ComponentCount int
}

const (
	entityColumnID = iota
	entityColumnGeneration
	entityColumnComponents
	entityColumnCount
)

type EntityBrowserCache struct {
	entities        []EntityInfo
	lastEntityCount int
	sortColumn      int
	sortAscending   bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:      entityColumnID,
			sortAscending:   true,
			lastEntityCount: -1,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// BuildEntityRows lists every live entity of w with the names of its component types.
func BuildEntityRows(w *ecs.World) []EntityInfo {
	rows := make([]EntityInfo, 0, w.EntityCount())
	for e := range w.Entities() {
		types := w.ComponentTypes(e)
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		rows = append(rows, EntityInfo{
			Entity:         e,
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}
	return rows
}

// SortEntityRows orders rows by one of the browser's columns.
func SortEntityRows(rows []EntityInfo, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b EntityInfo) int {
		var c int
		switch column {
		case entityColumnGeneration:
			c = cmp.Compare(a.Entity.Generation(), b.Entity.Generation())
		case entityColumnComponents:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case entityColumnCount:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		default:
			c = cmp.Compare(a.Entity.Index(), b.Entity.Index())
		}
		if !ascending {
			return -c
		}
		return c
	})
}

// FilterEntityRows keeps the rows whose entity id or component type names
// contain text, ignoring case.
func FilterEntityRows(rows []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return rows
	}

	filtered := make([]EntityInfo, 0, len(rows))
	filterLower := strings.ToLower(text)
	for _, row := range rows {
		idStr := row.Entity.String()
		componentsStr := strings.ToLower(strings.Join(row.ComponentTypes, " "))
		if strings.Contains(idStr, filterLower) || strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (eb *EntityBrowserComponent) Render(w *ecs.World, selection *Selection) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}

	filteredEntities := FilterEntityRows(eb.cache.entities, eb.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Generation")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortEntityRows(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := selection.Valid && selection.Entity == entity.Entity
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.Entity.Index()), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				selection.Entity = entity.Entity
				selection.Valid = true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Entity.Generation()))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(w *ecs.World) {
	if count := w.EntityCount(); eb.cache.lastEntityCount != count {
		eb.cache.entities = nil
		eb.cache.lastEntityCount = count
	}

	if eb.cache.entities == nil {
		eb.cache.entities = BuildEntityRows(w)
		SortEntityRows(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
	}
}

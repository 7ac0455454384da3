package debugui

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/lux/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(w *ecs.World, selection *Selection) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !selection.Valid {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	ci.selected = selection.Entity

	if !w.Alive(ci.selected) {
		imgui.Text(fmt.Sprintf("Entity %s no longer exists", ci.selected))
		if imgui.Button("Clear Selection") {
			selection.Valid = false
		}
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", ci.selected))
	imgui.Text(fmt.Sprintf("Components: %d", w.Mask(ci.selected).Count()))
	if ci.selected != w.Singleton() {
		imgui.SameLine()
		if imgui.Button("Destroy") {
			w.Handle().Commands().Destroy(ci.selected)
		}
	}
	imgui.Separator()

	for _, compType := range w.ComponentTypes(ci.selected) {
		component := w.GetComponent(ci.selected, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(w, component, compType)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(w *ecs.World, component any, compType reflect.Type) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if compType.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
		return
	}

	for _, field := range componentFields.Fields(compType) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(w, compType, []int{field.Index}, fieldVal, field, true)
	}
}

// renderField draws one field. Fields reached through a pointer are never
// editable, since SetComponentField copies the component by value.
func (ci *ComponentInspectorComponent) renderField(w *ecs.World, compType reflect.Type, path []int, val reflect.Value, field FieldInfo, parentEditable bool) {
	name := field.Name
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	editable := parentEditable && field.Editable
	label := fmt.Sprintf("##%s%v", name, path)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && editable {
			SetComponentField(w, ci.selected, compType, path, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && editable && v >= 0 {
			SetComponentField(w, ci.selected, compType, path, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) && editable {
			SetComponentField(w, ci.selected, compType, path, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+label, &v) && editable {
			SetComponentField(w, ci.selected, compType, path, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && editable {
			SetComponentField(w, ci.selected, compType, path, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range componentFields.Fields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(w, compType, append(slices.Clone(path), nf.Index), nestedVal, nf, parentEditable && !field.IsPointer)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// SetComponentField writes value into the field at path of e's compType
// component. The change goes through World.SetComponent, so on-set systems
// see it. It reports whether the field was written.
func SetComponentField(w *ecs.World, e ecs.Entity, compType reflect.Type, path []int, value any) bool {
	component := w.GetComponent(e, compType)
	if component == nil {
		return false
	}

	updated := reflect.New(compType).Elem()
	updated.Set(reflect.ValueOf(component).Elem())

	field, ok := fieldByPath(updated, path)
	if !ok || !field.CanSet() {
		return false
	}

	v := reflect.ValueOf(value)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !v.CanInt() {
			return false
		}
		field.SetInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !v.CanUint() {
			return false
		}
		field.SetUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		if !v.CanFloat() {
			return false
		}
		field.SetFloat(v.Float())
	case reflect.Bool:
		if v.Kind() != reflect.Bool {
			return false
		}
		field.SetBool(v.Bool())
	case reflect.String:
		if v.Kind() != reflect.String {
			return false
		}
		field.SetString(v.String())
	default:
		return false
	}

	w.SetComponent(e, updated.Interface())
	return true
}

// fieldByPath walks struct fields by index without following pointers.
func fieldByPath(v reflect.Value, path []int) (reflect.Value, bool) {
	for _, idx := range path {
		if v.Kind() != reflect.Struct || idx < 0 || idx >= v.NumField() {
			return reflect.Value{}, false
		}
		v = v.Field(idx)
	}
	return v, len(path) > 0
}

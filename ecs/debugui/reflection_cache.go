package debugui

import (
	"reflect"
	"strings"
	"sync"
)

// FieldInfo describes one exported field of a component struct as the
// inspector shows it. Type has pointers stripped.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	Kind      reflect.Kind
	IsPointer bool
	IsStruct  bool
	// Editable is set for scalar fields held by value and not tagged readonly.
	Editable bool
}

// fieldCache memoizes FieldInfo lists per component type. Panels on
// different worlds can share it.
type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]FieldInfo)}
}

// Fields returns the visible fields of t, or nil if t is not a struct.
//
// A field tagged `debug:"-"` is hidden; `debug:"readonly"` is shown but not editable.
func (c *fieldCache) Fields(t reflect.Type) []FieldInfo {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	fields := describeFields(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.fields[t]; ok {
		return cached
	}
	c.fields[t] = fields
	return fields
}

func describeFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []FieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("debug")
		if tag == "-" {
			continue
		}

		ft := sf.Type
		isPointer := ft.Kind() == reflect.Ptr
		if isPointer {
			ft = ft.Elem()
		}

		fields = append(fields, FieldInfo{
			Name:      sf.Name,
			Type:      ft,
			Index:     i,
			Kind:      ft.Kind(),
			IsPointer: isPointer,
			IsStruct:  ft.Kind() == reflect.Struct,
			Editable:  !isPointer && isScalar(ft.Kind()) && !hasOption(tag, "readonly"),
		})
	}
	return fields
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func hasOption(tag, option string) bool {
	for opt := range strings.SplitSeq(tag, ",") {
		if strings.TrimSpace(opt) == option {
			return true
		}
	}
	return false
}

var componentFields = newFieldCache()

package store

import "reflect"

// Patch carries a partial update keyed by entity field name
type Patch map[string]any

// applyPatch merges patch values into the entity's existing fields. Keys that
// do not name a field of the entity, and values not assignable to their field,
// are silently dropped. The ID field is never patched; identifiers are owned
// by the collection.
func applyPatch(entity any, patch Patch) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}
	for key, value := range patch {
		if key == "ID" {
			continue
		}
		field := v.FieldByName(key)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		val := reflect.ValueOf(value)
		if !val.IsValid() {
			continue
		}
		if val.Type().AssignableTo(field.Type()) {
			field.Set(val)
		} else if val.Type().ConvertibleTo(field.Type()) && assignableKinds(val.Kind(), field.Kind()) {
			field.Set(val.Convert(field.Type()))
		}
	}
}

// assignableKinds permits numeric and string conversions only, so a patch may
// carry e.g. an int for an int64 field without smuggling arbitrary casts
func assignableKinds(from, to reflect.Kind) bool {
	return (isNumericKind(from) && isNumericKind(to)) ||
		(from == reflect.String && to == reflect.String)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

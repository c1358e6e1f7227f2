package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// LenientDecode fills target from a Record, reconciling the scalar drift the API is known for:
// the same attribute may arrive as "7200" in one response and 7200 in another.
// Numbers are stringified for string fields, numeric strings are parsed for int/float fields
// and "true"/"false" strings are accepted for bool fields. Nested structs and slices are
// handled recursively; everything else goes through encoding/json unchanged.
func LenientDecode(r Record, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	elem := rv.Elem().Type()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}
	coerced := coerceFor(r, elem)
	data, err := json.Marshal(coerced)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// coerceFor rewrites value so that encoding/json can decode it into typ.
func coerceFor(value any, typ reflect.Type) any {
	if value == nil {
		return nil
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.String:
		return stringify(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s, ok := value.(string); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}
		if f, ok := value.(float64); ok && f == float64(int64(f)) {
			return int64(f)
		}
	case reflect.Float32, reflect.Float64:
		if s, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
	case reflect.Bool:
		if s, ok := value.(string); ok {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
		}
	case reflect.Slice, reflect.Array:
		if items, ok := value.([]any); ok {
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = coerceFor(item, typ.Elem())
			}
			return out
		}
	case reflect.Map:
		if m, ok := value.(Record); ok && typ.Key().Kind() == reflect.String {
			out := make(map[string]any, len(m))
			for k, v := range m {
				out[k] = coerceFor(v, typ.Elem())
			}
			return out
		}
	case reflect.Struct:
		if m, ok := value.(Record); ok {
			return coerceStruct(m, typ)
		}
		if m, ok := value.(map[string]any); ok {
			return coerceStruct(m, typ)
		}
	}
	return value
}

func coerceStruct(m map[string]any, typ reflect.Type) map[string]any {
	fields := jsonFields(typ)
	out := make(map[string]any, len(m))
	for key, v := range m {
		if field, ok := fields[key]; ok {
			out[key] = coerceFor(v, field.Type)
			continue
		}
		out[key] = v
	}
	return out
}

// jsonFields indexes the exported fields of typ by their JSON name, including promoted fields
// of embedded structs.
func jsonFields(typ reflect.Type) map[string]reflect.StructField {
	fields := make(map[string]reflect.StructField)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if field.Anonymous && name == "" {
			inner := field.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				for k, v := range jsonFields(inner) {
					if _, taken := fields[k]; !taken {
						fields[k] = v
					}
				}
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		fields[name] = field
	}
	return fields
}

func stringify(value any) any {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case Record, []any:
		// structured values cannot be coerced; let encoding/json report the mismatch
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

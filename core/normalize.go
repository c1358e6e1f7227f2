package core

import (
	"fmt"
	"reflect"
)

// Normalize rewrites a decoded JSON (or YAML/msgpack) tree so that every mapping is a Record
// keyed by canonical strings and every sequence is a []any. Scalars are returned untouched.
//
// The function is pure and idempotent: Normalize(Normalize(v)) is deeply equal to Normalize(v).
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case Record:
		out := make(Record, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(Record, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(Record, len(v))
		for key, item := range v {
			out[CanonicalKey(key)] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(Record, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case RecordSet:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []Record:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	}
	return normalizeReflect(reflect.ValueOf(value))
}

// normalizeReflect covers typed maps and slices the fast path does not list, e.g. map[string]int or []string.
func normalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Map:
		out := make(Record, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[CanonicalKey(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte stays opaque
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return rv.Interface()
}

// CanonicalKey returns the canonical identifier for a mapping key.
func CanonicalKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

// NormalizeRecord normalizes a mapping and returns it as a Record.
// Values that are not mappings are wrapped under RawKey.
func NormalizeRecord(value any) Record {
	switch n := Normalize(value).(type) {
	case Record:
		return n
	case nil:
		return Record{}
	default:
		return Record{RawKey: n}
	}
}

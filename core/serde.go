package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"
)

// RawKey holds response payloads that are not JSON objects (plain text error pages, bare arrays).
const RawKey = "@raw"

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	"_id":             empty,
	"type":            empty,
	"allowed":         empty,
	"is_active":       empty,
	"url":             empty,
	"legal_names":     empty,
	"bank_name":       empty,
	"nickname":        empty,
	"success":         empty,
	"http_code":       empty,
	"error_code":      empty,
	"oauth_key":       empty,
	"expires_at":      empty,
	"recent_status":   empty,
	"permission":      empty,
	"page":            empty,
	"page_count":      empty,
	"document_status": empty,
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	return LenientDecode(r, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// ToQuery serializes the Params into URL query values.
// This is used for GET and DELETE requests where the payload travels in the URL.
func (pr Params) ToQuery() url.Values {
	values := url.Values{}
	for k, v := range pr {
		if v == nil {
			continue
		}
		values.Set(k, queryValue(v))
	}
	return values
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an HTTP POST, PUT, or PATCH request.
func (pr Params) ToBody() (io.Reader, error) {
	buffer, err := json.Marshal(pr)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// Update merges another Params map into the original Params.
// Existing keys are kept unless override is true.
func (pr Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := pr[key]; exists && !override {
			continue
		}
		pr[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr Params) Without(keys ...string) {
	for _, key := range keys {
		delete(pr, key)
	}
}

// SetIf assigns value only when it is not the zero value of its type.
// Payload builders use it for optional sub-fields.
func (pr Params) SetIf(key string, value any) {
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() {
		return
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.Len() == 0 {
		return
	}
	pr[key] = value
}

// queryValue renders a single payload value as a query string value.
// Scalars use their natural representation, sequences are comma-joined and mappings are JSON encoded.
func queryValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = queryValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Record is a normalized response body: a mapping from canonical keys to JSON values
// (string, float64, bool, nil, []any or nested Record).
type Record map[string]any

// RecordSet represents a list of Record objects, e.g. one page of a list endpoint.
type RecordSet []Record

// Fill populates the exported fields of the given struct pointer using values
// from the Record. Keys are matched against `json` tags and scalar type mismatches
// (a number where a string is declared and vice versa) are reconciled.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// Get walks nested records and sequences. String segments index mappings, int segments index sequences.
//
//	node, ok := resp.Get("nodes", 0, "info", "account_num")
func (r Record) Get(path ...any) (any, bool) {
	var cur any = r
	for _, seg := range path {
		switch key := seg.(type) {
		case string:
			m, ok := cur.(Record)
			if !ok {
				return nil, false
			}
			if cur, ok = m[key]; !ok {
				return nil, false
			}
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			cur = s[key]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the value at path rendered as a string, or "" when absent.
// Numbers that carry integral values are rendered without a fractional part.
func (r Record) GetString(path ...any) string {
	v, ok := r.Get(path...)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// GetRecord returns the nested Record at path.
func (r Record) GetRecord(path ...any) (Record, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return nil, false
	}
	rec, ok := v.(Record)
	return rec, ok
}

// GetRecordSet returns the sequence at path, keeping only the mapping elements.
func (r Record) GetRecordSet(path ...any) RecordSet {
	v, ok := r.Get(path...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make(RecordSet, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Success reports the envelope's success flag.
func (r Record) Success() bool {
	b, _ := r[KeySuccess].(bool)
	return b
}

// RecordID returns the server-assigned identifier (`_id`).
func (r Record) RecordID() string {
	return r.GetString("_id")
}

// PrettyTable renders a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok && value != nil {
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	if len(rows) == 0 {
		return "<>"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	return prettyJson(r, indent...)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs (or pointers to structs).
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr
	targetType := elemType
	if isPtrElem {
		targetType = elemType.Elem()
	}
	if targetType.Kind() != reflect.Struct {
		return fmt.Errorf("slice element must be a struct or pointer to a struct")
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable renders every Record of the set, separated by blank lines
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n")
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	return prettyJson(rs, indent...)
}

func prettyJson(v any, indent ...string) string {
	var (
		b   []byte
		err error
	)
	if len(indent) > 0 {
		b, err = json.MarshalIndent(v, "", indent[0])
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// decodeBody parses a response body into a normalized Record.
// Empty bodies yield an empty Record; JSON that is not an object is wrapped under RawKey.
func decodeBody(body []byte) (Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Record{}, nil
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return nil, err
	}
	return NormalizeRecord(decoded), nil
}

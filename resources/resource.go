package resources

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/synapsepay/go-synapse-client/core"
)

// ErrMissingField is returned by request validation before anything is sent.
var ErrMissingField = errors.New("missing required field(s)")

// segment escapes one identifier for use in a resource path and rejects empty ones.
func segment(kind, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%s id must not be empty", kind)
	}
	return url.PathEscape(id), nil
}

// list performs one paginated GET.
func list(ctx context.Context, session core.RESTSession, req *core.ApiRequest, opts *core.ListOptions) (core.Record, error) {
	return core.FetchPage(ctx, session, req, opts)
}

// iterate walks every record of every page of a list endpoint.
func iterate(ctx context.Context, session core.RESTSession, req *core.ApiRequest, itemsKey string, opts *core.ListOptions) iter.Seq2[core.Record, error] {
	return core.NewPageIterator(ctx, session, req, itemsKey, opts).Records()
}

func get(path string) *core.ApiRequest {
	return core.NewApiRequest(http.MethodGet, path)
}

func post(path string, payload core.Params) *core.ApiRequest {
	return core.NewApiRequest(http.MethodPost, path).WithPayload(payload)
}

func patch(path string, payload core.Params) *core.ApiRequest {
	return core.NewApiRequest(http.MethodPatch, path).WithPayload(payload)
}

func del(path string) *core.ApiRequest {
	return core.NewApiRequest(http.MethodDelete, path)
}

// validateRequired reports every field tagged `required:"true"` that holds its zero value.
// Field names are taken from the yaml tag, then the json tag, then the Go name.
func validateRequired(request any) error {
	rv := reflect.ValueOf(request)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return fmt.Errorf("request must not be nil")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	var missing []string
	collectMissing(rv, &missing)
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", rv.Type().Name(), ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func collectMissing(rv reflect.Value, missing *[]string) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			collectMissing(value, missing)
			continue
		}
		if field.Tag.Get("required") != "true" {
			continue
		}
		empty := value.IsZero()
		if !empty && (value.Kind() == reflect.Slice || value.Kind() == reflect.Map) {
			empty = value.Len() == 0
		}
		if empty {
			*missing = append(*missing, fieldName(field))
		}
	}
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"yaml", "json"} {
		if name, _, _ := strings.Cut(field.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

package openapi_schema

import (
	"embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	//go:embed api.yaml
	FS             embed.FS
	openApiDocOnce sync.Once
	openApiDoc     *openapi3.T
	openApiDocErr  error
	schemaRelPath  = "api.yaml"
)

var (
	ErrPathNotFound   = errors.New("path not found in API catalogue")
	ErrMethodNotFound = errors.New("method not allowed for path in API catalogue")
)

// methodOrder keeps route listings stable and readable.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Route is one operation of the API catalogue.
type Route struct {
	Method      string
	Path        string // templated path, e.g. /users/{user_id}/nodes
	OperationID string
	Summary     string
}

// Field describes one top-level property of a request body.
type Field struct {
	Name     string
	Type     string
	Required bool
}

// loadOpenAPIDocOnce parses the embedded document exactly once.
// Errors of the first load are cached and returned on subsequent calls.
func loadOpenAPIDocOnce() (*openapi3.T, error) {
	openApiDocOnce.Do(func() {
		data, err := FS.ReadFile(schemaRelPath)
		if err != nil {
			openApiDocErr = fmt.Errorf("read embedded %s: %w", schemaRelPath, err)
			return
		}
		loader := openapi3.NewLoader()
		openApiDoc, openApiDocErr = loader.LoadFromData(data)
	})
	return openApiDoc, openApiDocErr
}

// Routes returns every operation of the catalogue ordered by path, then method.
func Routes() ([]Route, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	var routes []Route
	for _, path := range keys {
		item := paths[path]
		for _, method := range methodOrder {
			if op := item.GetOperation(method); op != nil {
				routes = append(routes, Route{
					Method:      method,
					Path:        path,
					OperationID: op.OperationID,
					Summary:     op.Summary,
				})
			}
		}
	}
	return routes, nil
}

// MatchRoute finds the catalogue operation serving a concrete request path such as
// /users/5f1c/nodes. Query strings and trailing slashes are ignored.
func MatchRoute(httpMethod, requestPath string) (*Route, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	method := strings.ToUpper(httpMethod)
	concrete := splitPath(requestPath)

	for template, item := range doc.Paths.Map() {
		if !segmentsMatch(splitPath(template), concrete) {
			continue
		}
		op := item.GetOperation(method)
		if op == nil {
			return nil, fmt.Errorf(
				"%w: %s %s (available methods: %v)",
				ErrMethodNotFound, method, requestPath, availableMethods(item),
			)
		}
		return &Route{Method: method, Path: template, OperationID: op.OperationID, Summary: op.Summary}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPathNotFound, requestPath)
}

// ValidateOperationExists checks that the method exists for a concrete request path.
func ValidateOperationExists(httpMethod, requestPath string) error {
	_, err := MatchRoute(httpMethod, requestPath)
	return err
}

// GetOperationSummary returns the summary of the operation serving a concrete request path.
func GetOperationSummary(httpMethod, requestPath string) (string, error) {
	route, err := MatchRoute(httpMethod, requestPath)
	if err != nil {
		return "", err
	}
	return route.Summary, nil
}

// GetRequestBodySchema returns the resolved JSON request body schema of an operation.
func GetRequestBodySchema(httpMethod, requestPath string) (*openapi3.SchemaRef, error) {
	route, err := MatchRoute(httpMethod, requestPath)
	if err != nil {
		return nil, err
	}
	doc, _ := loadOpenAPIDocOnce()
	op := doc.Paths.Value(route.Path).GetOperation(route.Method)
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("%s %s has no request body", route.Method, route.Path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil, fmt.Errorf("%s %s has no application/json request body", route.Method, route.Path)
	}
	return media.Schema, nil
}

// RequestBodyFields lists the top-level properties of an operation's request body,
// required fields first, then alphabetically.
func RequestBodyFields(httpMethod, requestPath string) ([]Field, error) {
	ref, err := GetRequestBodySchema(httpMethod, requestPath)
	if err != nil {
		return nil, err
	}
	schema := resolveComposedSchema(ref.Value)
	if !IsObject(schema) {
		return nil, fmt.Errorf("request body of %s %s is not an object", httpMethod, requestPath)
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	fields := make([]Field, 0, len(schema.Properties))
	for name, prop := range schema.Properties {
		fields = append(fields, Field{Name: name, Type: GetSchemaType(prop.Value), Required: required[name]})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Required != fields[j].Required {
			return fields[i].Required
		}
		return fields[i].Name < fields[j].Name
	})
	return fields, nil
}

// resolveComposedSchema flattens allOf into a single object schema.
func resolveComposedSchema(schema *openapi3.Schema) *openapi3.Schema {
	if schema == nil || len(schema.AllOf) == 0 {
		return schema
	}
	merged := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{},
	}
	for _, part := range schema.AllOf {
		resolved := resolveComposedSchema(part.Value)
		if resolved == nil {
			continue
		}
		for name, prop := range resolved.Properties {
			merged.Properties[name] = prop
		}
		merged.Required = append(merged.Required, resolved.Required...)
	}
	return merged
}

func availableMethods(item *openapi3.PathItem) []string {
	var methods []string
	for _, method := range methodOrder {
		if item.GetOperation(method) != nil {
			methods = append(methods, method)
		}
	}
	return methods
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func segmentsMatch(template, concrete []string) bool {
	if len(template) != len(concrete) {
		return false
	}
	for i, seg := range template {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if concrete[i] == "" {
				return false
			}
			continue
		}
		if seg != concrete[i] {
			return false
		}
	}
	return true
}

package openapi_schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// IsObject returns true if the given OpenAPI schema represents an object type
func IsObject(prop *openapi3.Schema) bool {
	return prop != nil && prop.Type != nil && len(*prop.Type) > 0 && (*prop.Type)[0] == openapi3.TypeObject
}

// GetSchemaType returns the type string of the given OpenAPI schema
func GetSchemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

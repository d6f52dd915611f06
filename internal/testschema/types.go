package testschema

import (
	"slices"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// MapType maps an OpenAPI primitive type name to a parameter type.
// It also accepts an OpenAPI 3.1 type list, using the first non-null entry.
// Unknown or absent types map to string.
func MapType(v any) domain.ParamType {
	switch t := v.(type) {
	case string:
		return mapTypeName(t)
	case []any:
		for _, entry := range t {
			if name, ok := entry.(string); ok && name != "null" {
				return mapTypeName(name)
			}
		}
	}

	return domain.TypeString
}

func mapTypeName(name string) domain.ParamType {
	switch name {
	case "integer", "number":
		return domain.TypeNumber
	case "array":
		return domain.TypeArray
	case "boolean":
		return domain.TypeBoolean
	default:
		return domain.TypeString
	}
}

// ExtractEnum returns the allowed values declared by schema.
// The second result is false when no enum is declared.
func ExtractEnum(schema any) ([]any, bool) {
	values, ok := field(schema, "enum").([]any)
	if !ok {
		return nil, false
	}

	if values == nil {
		return []any{}, true
	}

	return slices.Clone(values), true
}

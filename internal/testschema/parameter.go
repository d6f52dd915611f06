package testschema

import (
	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// NormalizeParameter converts one OpenAPI parameter object into its location,
// name and field configuration. ok is false when the descriptor has no name or
// location and therefore cannot be keyed.
func NormalizeParameter(desc any) (location, name string, cfg domain.ParameterConfig, ok bool) {
	location = str(field(desc, "in"))
	name = str(field(desc, "name"))

	if location == "" || name == "" {
		return "", "", domain.ParameterConfig{}, false
	}

	schema := field(desc, "schema")

	cfg = domain.ParameterConfig{
		Type:        MapType(field(schema, "type")),
		Required:    truthy(field(desc, "required")),
		Description: str(field(desc, "description")),
	}

	if options, found := ExtractEnum(schema); found {
		cfg.Options = options
	}

	return location, name, cfg, true
}

// normalizeProperty converts one schema property of a request body.
func normalizeProperty(prop any, required bool) domain.ParameterConfig {
	cfg := domain.ParameterConfig{
		Type:        MapType(field(prop, "type")),
		Required:    required,
		Description: str(field(prop, "description")),
	}

	if options, found := ExtractEnum(prop); found {
		cfg.Options = options
	}

	// An array of enum items is a multi-select.
	if cfg.Type == domain.TypeArray {
		if options, found := ExtractEnum(field(prop, "items")); found {
			cfg.Options = options
			cfg.MultipleSelect = true
		}
	}

	return cfg
}

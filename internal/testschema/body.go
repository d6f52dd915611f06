package testschema

import (
	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

const jsonContentType = "application/json"

// NormalizeBody converts an operation's requestBody into a body configuration.
//
// An object schema yields a flat field mapping. An array schema yields an
// array-body template built from its items. When a schema is both, the array
// form wins. Nil is returned when there is no usable JSON schema.
func NormalizeBody(requestBody any) *domain.Body {
	schema := field(field(field(requestBody, "content"), jsonContentType), "schema")
	if schema == nil {
		return nil
	}

	var body *domain.Body

	if props, ok := asMapping(field(schema, "properties")); ok {
		body = &domain.Body{Fields: normalizeProperties(props, field(schema, "required"))}
	}

	if items := field(schema, "items"); items != nil && MapType(field(schema, "type")) == domain.TypeArray {
		fields := domain.ParameterSet{}
		if props, ok := asMapping(field(items, "properties")); ok {
			fields = normalizeProperties(props, field(items, "required"))
		}

		body = &domain.Body{Fields: fields, IsArray: true}
	}

	return body
}

func normalizeProperties(props mapping, required any) domain.ParameterSet {
	names := requiredNames(required)
	fields := make(domain.ParameterSet, len(props.keys()))

	for _, name := range props.keys() {
		prop, _ := props.get(name)
		_, isRequired := names[name]
		fields[name] = normalizeProperty(prop, isRequired)
	}

	return fields
}

func requiredNames(v any) map[string]struct{} {
	list, _ := v.([]any)
	names := make(map[string]struct{}, len(list))

	for _, entry := range list {
		if name, ok := entry.(string); ok {
			names[name] = struct{}{}
		}
	}

	return names
}

package testschema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// actionExtension lets an operation choose its action key (e.g. "create").
const actionExtension = "x-action"

// verbs are the path item keys treated as operations.
var verbs = []string{"get", "post", "put", "delete", "patch"}

// IsVerb reports whether a path item key names an operation.
func IsVerb(key string) bool {
	return slices.Contains(verbs, key)
}

// ConvertOperation builds the operation configuration for verb on path.
func ConvertOperation(verb, path string, op any) (*domain.OperationConfig, error) {
	if _, ok := asMapping(op); !ok {
		return nil, fmt.Errorf("%w: %s %s is not a mapping", ErrMalformedDocument, strings.ToUpper(verb), path)
	}

	cfg := &domain.OperationConfig{
		Verb:        strings.ToUpper(verb),
		Endpoint:    path,
		Description: str(field(op, "description")),
	}

	// Group parameters by location
	params, _ := field(op, "parameters").([]any)
	for _, param := range params {
		location, name, paramCfg, ok := NormalizeParameter(param)
		// bodies come from requestBody only
		if !ok || location == domain.LocationBody {
			continue
		}

		cfg.Parameters.Add(location, name, paramCfg)
	}

	if body := NormalizeBody(field(op, "requestBody")); body != nil {
		cfg.Parameters.Body = body
	}

	return cfg, nil
}

// actionKey returns the key an operation is stored under within its resource.
func actionKey(verb string, op any) string {
	if action := str(field(op, actionExtension)); action != "" {
		return action
	}

	return strings.ToLower(verb)
}

package playground

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// ErrActionNotFound is returned when a resource/action pair is not configured.
var ErrActionNotFound = errors.New("test configuration not found")

const (
	apiPrefix = "/api"
	bodyInput = "body"
)

// pathPlaceholder matches a whole ":name" or "{name}" path placeholder.
var pathPlaceholder = regexp.MustCompile(`:[A-Za-z0-9_]+|\{[^}/]+\}`)

// strippedPagination are removed from GET query fields and offered generically instead.
var strippedPagination = []string{"page", "per_page", "sort", "order"}

// paginationParams are forwarded on every GET when provided.
var paginationParams = []string{"page", "per_page", "limit", "sort", "order"}

// Inputs are the values entered for an operation, keyed by field name.
// Array bodies are supplied under "body" as a list of objects.
type Inputs map[string]any

// Request is a fully built request.
type Request struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	QueryParams map[string]string `json:"query_params,omitempty"`
	PathParams  map[string]string `json:"path_params,omitempty"`
	Body        any               `json:"body,omitempty"`
	Headers     map[string]string `json:"headers"`
}

// Lookup returns a copy of the operation configured for resource/action.
// For GET operations the pagination fields are removed from the query fields.
func Lookup(cfg domain.TestConfiguration, resource, action string) (*domain.OperationConfig, error) {
	res, ok := cfg[resource]
	if !ok || res.Actions[action] == nil {
		return nil, fmt.Errorf("%w for %s.%s", ErrActionNotFound, resource, action)
	}

	op := res.Actions[action].Clone()

	if op.Verb == "GET" {
		query := op.Parameters.Locations[domain.LocationQuery]
		for _, name := range strippedPagination {
			delete(query, name)
		}
	}

	return op, nil
}

// CanHaveBody reports whether verb carries a request body.
func CanHaveBody(verb string) bool {
	switch strings.ToUpper(verb) {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}

// MissingRequired returns the required query and path fields without a value, sorted.
func MissingRequired(op *domain.OperationConfig, inputs Inputs) []string {
	var missing []string

	for _, location := range []string{domain.LocationQuery, domain.LocationPath} {
		for name, cfg := range op.Parameters.Location(location) {
			if !cfg.Required {
				continue
			}

			if strings.TrimSpace(stringify(inputs[name])) == "" {
				missing = append(missing, name)
			}
		}
	}

	sort.Strings(missing)

	return slices.Compact(missing)
}

// BuildRequest turns an operation and its inputs into a request.
func BuildRequest(op *domain.OperationConfig, inputs Inputs) Request {
	req := Request{
		Method:      op.Verb,
		QueryParams: map[string]string{},
		PathParams:  map[string]string{},
		Headers:     map[string]string{"Content-Type": "application/json"},
	}

	for name := range op.Parameters.Location(domain.LocationQuery) {
		if present(inputs[name]) {
			req.QueryParams[name] = stringify(inputs[name])
		}
	}

	if op.Verb == "GET" {
		for _, name := range paginationParams {
			if present(inputs[name]) {
				req.QueryParams[name] = stringify(inputs[name])
			}
		}
	}

	for name := range op.Parameters.Location(domain.LocationPath) {
		if present(inputs[name]) {
			req.PathParams[name] = stringify(inputs[name])
		}
	}

	for name := range op.Parameters.Location(domain.LocationHeader) {
		if present(inputs[name]) {
			req.Headers[name] = stringify(inputs[name])
		}
	}

	if op.Parameters.Body != nil && CanHaveBody(op.Verb) {
		req.Body = buildBody(op.Parameters.Body, inputs)
	}

	req.URL = buildURL(op.Endpoint, req.PathParams, req.QueryParams)

	return req
}

func buildBody(body *domain.Body, inputs Inputs) any {
	if !body.IsArray {
		out := buildObject(body.Fields, inputs)
		if len(out) == 0 {
			return nil
		}

		return out
	}

	elements, ok := inputs[bodyInput].([]any)
	if !ok {
		return nil
	}

	items := make([]any, 0, len(elements))
	for _, element := range elements {
		values, ok := element.(map[string]any)
		if !ok {
			continue
		}

		if item := buildObject(body.Fields, values); len(item) > 0 {
			items = append(items, item)
		}
	}

	return items
}

func buildObject(fields domain.ParameterSet, values map[string]any) map[string]any {
	out := map[string]any{}

	for name, cfg := range fields {
		value, ok := values[name]
		if !ok || !present(value) {
			continue
		}

		if coerced := coerce(cfg.Type, value); coerced != nil {
			out[name] = coerced
		}
	}

	return out
}

// coerce converts an entered value to the field's declared type.
// It returns nil for numbers that do not parse.
func coerce(typ domain.ParamType, value any) any {
	switch typ {
	case domain.TypeNumber:
		switch v := value.(type) {
		case float64, int, int64:
			return v
		default:
			n, err := strconv.ParseFloat(strings.TrimSpace(stringify(v)), 64)
			if err != nil {
				return nil
			}

			return n
		}
	case domain.TypeArray:
		switch v := value.(type) {
		case []any:
			return v
		case []string:
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}

			return out
		default:
			return []any{v}
		}
	default:
		return value
	}
}

// buildURL prefixes the endpoint with /api, substitutes path placeholders and appends the query.
func buildURL(endpoint string, pathParams, queryParams map[string]string) string {
	u := endpoint
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}

	if !strings.HasPrefix(u, apiPrefix) {
		u = apiPrefix + u
	}

	u = pathPlaceholder.ReplaceAllStringFunc(u, func(placeholder string) string {
		if value, ok := pathParams[placeholderName(placeholder)]; ok {
			return url.PathEscape(value)
		}

		return placeholder
	})

	if len(queryParams) > 0 {
		values := url.Values{}
		for name, value := range queryParams {
			values.Set(name, value)
		}

		u += "?" + values.Encode()
	}

	return u
}

// placeholderName strips the ":" or "{}" around a path placeholder.
func placeholderName(placeholder string) string {
	if strings.HasPrefix(placeholder, ":") {
		return placeholder[1:]
	}

	return strings.TrimSuffix(strings.TrimPrefix(placeholder, "{"), "}")
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = stringify(item)
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

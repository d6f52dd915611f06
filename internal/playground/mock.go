package playground

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/erraggy/oastools/httpvalidator"
)

// colonParam matches ":name" path segments.
var colonParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

const firstMockID = 100

// MockBackend answers requests for every operation of a test configuration
// with synthesized data, without contacting a real backend. Created ids keep
// increasing across Load calls.
type MockBackend struct {
	mu       sync.RWMutex
	routes   map[string]*httpvalidator.PathMatcherSet
	handlers map[string]*domain.OperationConfig
	nextID   atomic.Int64
}

// NewMockBackend creates a mock backend serving cfg.
func NewMockBackend(cfg domain.TestConfiguration) *MockBackend {
	m := &MockBackend{}
	m.nextID.Store(firstMockID)
	m.Load(cfg)

	return m
}

// Load replaces the routing table with the operations of cfg. When several
// operations share a method and endpoint, the first resource in name order wins.
// Malformed endpoints are skipped.
func (m *MockBackend) Load(cfg domain.TestConfiguration) {
	routes := map[string]*httpvalidator.PathMatcherSet{}
	handlers := map[string]*domain.OperationConfig{}
	templates := map[string][]string{}

	for _, name := range slices.Sorted(maps.Keys(cfg)) {
		resource := cfg[name]

		for _, action := range slices.Sorted(maps.Keys(resource.Actions)) {
			op := resource.Actions[action]
			method := strings.ToUpper(op.Verb)
			template := mockTemplate(op.Endpoint)

			if _, err := httpvalidator.NewPathMatcher(template); err != nil {
				continue
			}

			key := method + " " + template
			if _, ok := handlers[key]; ok {
				continue
			}

			handlers[key] = op
			templates[method] = append(templates[method], template)
		}
	}

	for method, list := range templates {
		set, err := httpvalidator.NewPathMatcherSet(list)
		if err != nil {
			continue
		}

		routes[method] = set
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.routes = routes
	m.handlers = handlers
}

// mockTemplate returns the /api path template of endpoint with ":name" rewritten to "{name}".
func mockTemplate(endpoint string) string {
	return colonParam.ReplaceAllString(buildURL(endpoint, nil, nil), "{${1}}")
}

// match resolves method and path to an operation. Exact paths win over templated ones.
func (m *MockBackend) match(method, path string) (*domain.OperationConfig, map[string]string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.routes[method]
	if !ok {
		return nil, nil
	}

	template, raw, found := set.Match(path)
	if !found {
		return nil, nil
	}

	params := make(map[string]string, len(raw))
	for name, value := range raw {
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}

		params[name] = value
	}

	return m.handlers[method+" "+template], params
}

// Respond answers a request for rawURL. It returns the HTTP status and the envelope.
func (m *MockBackend) Respond(method, rawURL string, body []byte) (int, Envelope) {
	method = strings.ToUpper(method)

	u, err := url.Parse(rawURL)
	if err != nil {
		return http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeRequestError, fmt.Sprintf("Invalid URL: %v", err))
	}

	op, pathParams := m.match(method, u.Path)
	if op == nil {
		msg := fmt.Sprintf("No mock handler found for %s %s", method, u.Path)
		return http.StatusNotFound, errorEnvelope(http.StatusNotFound, CodeMockNotFound, msg)
	}

	var payload any
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeInvalidBody, "Invalid JSON in request body")
		}
	}

	query := u.Query()

	if missing := mockMissing(op, query, pathParams, payload); len(missing) > 0 {
		msg := "Missing required fields: " + strings.Join(missing, ", ")
		return http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeValidationError, msg)
	}

	return m.synthesize(op, query, pathParams, payload)
}

func (m *MockBackend) synthesize(op *domain.OperationConfig, query url.Values, pathParams map[string]string, payload any) (int, Envelope) {
	record := map[string]any{}
	for name := range op.Parameters.Location(domain.LocationQuery) {
		if v := query.Get(name); v != "" {
			record[name] = v
		}
	}

	for name, v := range pathParams {
		record[name] = v
	}

	switch strings.ToUpper(op.Verb) {
	case http.MethodGet:
		return http.StatusOK, successEnvelope([]any{record}, http.StatusOK, CodeSuccess, "Operation successful")
	case http.MethodPost:
		items := m.withIDs(record, payload)
		return http.StatusCreated, successEnvelope(items, http.StatusCreated, CodeCreated, "Resource created successfully")
	case http.MethodDelete:
		return http.StatusOK, successEnvelope([]any{}, http.StatusOK, CodeSuccess, "Resource deleted successfully")
	default:
		return http.StatusOK, successEnvelope(mergeRecords(record, payload), http.StatusOK, CodeSuccess, "Resource updated successfully")
	}
}

func (m *MockBackend) withIDs(record map[string]any, payload any) []any {
	items := mergeRecords(record, payload)
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if _, has := obj["id"]; !has {
				obj["id"] = m.nextID.Add(1)
			}
		}
	}

	return items
}

// objectsOf returns the JSON objects of a payload, or one empty object.
func objectsOf(payload any) []map[string]any {
	var objects []map[string]any

	switch p := payload.(type) {
	case map[string]any:
		objects = append(objects, p)
	case []any:
		for _, element := range p {
			if obj, ok := element.(map[string]any); ok {
				objects = append(objects, obj)
			}
		}
	}

	if len(objects) == 0 {
		objects = append(objects, map[string]any{})
	}

	return objects
}

// mergeRecords overlays every payload object on top of record.
func mergeRecords(record map[string]any, payload any) []any {
	objects := objectsOf(payload)

	items := make([]any, 0, len(objects))
	for _, obj := range objects {
		item := maps.Clone(record)
		maps.Copy(item, obj)

		items = append(items, item)
	}

	return items
}

func mockMissing(op *domain.OperationConfig, query url.Values, pathParams map[string]string, payload any) []string {
	inputs := Inputs{}
	for name := range query {
		inputs[name] = query.Get(name)
	}

	for name, v := range pathParams {
		inputs[name] = v
	}

	missing := MissingRequired(op, inputs)

	if op.Parameters.Body == nil || !CanHaveBody(op.Verb) {
		return missing
	}

	objects := objectsOf(payload)

	seen := map[string]bool{}
	for _, name := range missing {
		seen[name] = true
	}

	var bodyMissing []string

	for name, cfg := range op.Parameters.Body.Fields {
		if !cfg.Required || seen[name] {
			continue
		}

		for _, obj := range objects {
			if !present(obj[name]) {
				bodyMissing = append(bodyMissing, name)
				seen[name] = true

				break
			}
		}
	}

	sort.Strings(bodyMissing)

	return append(missing, bodyMissing...)
}

// ServeHTTP lets the mock backend stand in for a real API.
func (m *MockBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, errorEnvelope(http.StatusBadRequest, CodeInvalidBody, "Failed to read request body"))
		return
	}

	status, env := m.Respond(r.Method, r.URL.RequestURI(), body)
	writeEnvelope(w, status, env)
}

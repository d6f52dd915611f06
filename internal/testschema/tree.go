// Package testschema converts raw OpenAPI documents into the playground's test configuration.
//
// Conversion is pure: no I/O, no shared state. Malformed fields degrade to
// defaults; only structurally unusable documents are reported as errors.
package testschema

import (
	"math"
	"sort"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// mapping is a read-only view over either mapping representation of a raw tree.
type mapping interface {
	keys() []string
	get(key string) (any, bool)
}

type orderedMapping struct{ m *domain.Map }

func (o orderedMapping) keys() []string             { return o.m.Keys() }
func (o orderedMapping) get(key string) (any, bool) { return o.m.Get(key) }

type plainMapping map[string]any

func (p plainMapping) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func (p plainMapping) get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

func asMapping(v any) (mapping, bool) {
	switch m := v.(type) {
	case *domain.Map:
		if m == nil {
			return nil, false
		}
		return orderedMapping{m}, true
	case map[string]any:
		if m == nil {
			return nil, false
		}
		return plainMapping(m), true
	default:
		return nil, false
	}
}

// field returns node[key], or nil when node is not a mapping or lacks key.
func field(node any, key string) any {
	m, ok := asMapping(node)
	if !ok {
		return nil
	}

	v, _ := m.get(key)

	return v
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// truthy coerces a loosely typed flag to a boolean.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

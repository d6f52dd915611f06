// Package domain provides core business models and interfaces for the OpenAPI playground.
package domain

import (
	"fmt"
	"slices"
)

// Document is a raw, already-parsed OpenAPI specification.
//
// Root is a tree of mapping nodes (*Map or map[string]any), sequences ([]any)
// and scalars. It is owned by the caller and never mutated by the converter.
type Document struct {
	Source string // file name or URL the document was read from
	Root   any
}

// DocumentError records a document that could not be read or converted.
type DocumentError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Map is an ordered mapping node. Keys keep the position of their first insertion.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty ordered mapping.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	v, ok := m.values[key]

	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

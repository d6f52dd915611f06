package domain

import (
	"encoding/json"
	"maps"
)

// ParamType is the UI-facing type tag of a parameter.
type ParamType string

// Canonical parameter types.
const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeArray   ParamType = "array"
	TypeBoolean ParamType = "boolean"
)

// Well-known parameter locations.
const (
	LocationQuery  = "query"
	LocationPath   = "path"
	LocationHeader = "header"
	LocationBody   = "body"
)

// ParameterConfig is the normalized description of a single input field.
type ParameterConfig struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`
	// Options is nil when the source declared no enum. A non-nil empty slice
	// is a declared empty enum.
	Options        []any `json:"-"`
	MultipleSelect bool  `json:"multiple_select,omitempty"`
}

// HasOptions reports whether the field is a select.
func (p ParameterConfig) HasOptions() bool {
	return p.Options != nil
}

// MarshalJSON emits "options" only when the source declared an enum.
func (p ParameterConfig) MarshalJSON() ([]byte, error) {
	type plain ParameterConfig

	out := struct {
		plain
		Options *[]any `json:"options,omitempty"`
	}{plain: plain(p)}

	if p.Options != nil {
		out.Options = &p.Options
	}

	return json.Marshal(out)
}

// ParameterSet maps a field name to its configuration.
type ParameterSet map[string]ParameterConfig

// Body is the normalized request body: either a flat field mapping or an
// array-body template holding the schema of one element.
type Body struct {
	Fields  ParameterSet
	IsArray bool
}

// MarshalJSON renders an array body as a one-element sequence.
func (b *Body) MarshalJSON() ([]byte, error) {
	fields := b.Fields
	if fields == nil {
		fields = ParameterSet{}
	}

	if b.IsArray {
		return json.Marshal([]ParameterSet{fields})
	}

	return json.Marshal(fields)
}

// Parameters groups an operation's fields by location.
type Parameters struct {
	Locations map[string]ParameterSet
	Body      *Body
}

// Add stores cfg under location/name. A repeated name overwrites the earlier entry.
func (p *Parameters) Add(location, name string, cfg ParameterConfig) {
	if p.Locations == nil {
		p.Locations = make(map[string]ParameterSet)
	}

	if p.Locations[location] == nil {
		p.Locations[location] = ParameterSet{}
	}

	p.Locations[location][name] = cfg
}

// Location returns the fields declared in location, or nil.
func (p Parameters) Location(location string) ParameterSet {
	return p.Locations[location]
}

// MarshalJSON flattens locations and body into one object.
func (p Parameters) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Locations)+1)
	for location, set := range p.Locations {
		out[location] = set
	}

	if p.Body != nil {
		out[LocationBody] = p.Body
	}

	return json.Marshal(out)
}

// OperationConfig describes one callable operation.
type OperationConfig struct {
	Verb        string     `json:"verb"`
	Endpoint    string     `json:"endpoint"`
	Description string     `json:"description,omitempty"`
	Parameters  Parameters `json:"parameters"`
}

// HasArrayBody reports whether the request body is an array-body template.
func (o *OperationConfig) HasArrayBody() bool {
	return o != nil && o.Parameters.Body != nil && o.Parameters.Body.IsArray
}

// ArrayBodyItemSchema returns the item schema of an array body.
func (o *OperationConfig) ArrayBodyItemSchema() (ParameterSet, bool) {
	if !o.HasArrayBody() {
		return nil, false
	}

	return o.Parameters.Body.Fields, true
}

// Clone returns a deep copy of the operation.
func (o *OperationConfig) Clone() *OperationConfig {
	if o == nil {
		return nil
	}

	c := *o
	c.Parameters.Locations = make(map[string]ParameterSet, len(o.Parameters.Locations))

	for location, set := range o.Parameters.Locations {
		c.Parameters.Locations[location] = maps.Clone(set)
	}

	if o.Parameters.Body != nil {
		c.Parameters.Body = &Body{
			Fields:  maps.Clone(o.Parameters.Body.Fields),
			IsArray: o.Parameters.Body.IsArray,
		}
	}

	return &c
}

// Resource holds the actions of one API, keyed by action name (get, create, ...).
type Resource struct {
	ParentGroup string
	Actions     map[string]*OperationConfig
}

// NewResource creates an empty resource.
func NewResource() *Resource {
	return &Resource{Actions: make(map[string]*OperationConfig)}
}

// MarshalJSON emits actions and parent_group side by side.
func (r *Resource) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Actions)+1)
	for action, op := range r.Actions {
		out[action] = op
	}

	if r.ParentGroup != "" {
		out["parent_group"] = r.ParentGroup
	}

	return json.Marshal(out)
}

// TestConfiguration maps a resource name to its actions.
type TestConfiguration map[string]*Resource

// Merge copies every resource of other into c. Resources with the same name are replaced.
func (c TestConfiguration) Merge(other TestConfiguration) {
	maps.Copy(c, other)
}

// Result is the outcome of converting a batch of documents.
type Result struct {
	Config TestConfiguration `json:"config"`
	Errors []DocumentError   `json:"errors,omitempty"`
}

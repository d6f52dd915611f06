// Package exporters renders test configurations as human-readable endpoint documentation.
package exporters

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// resourceGroup is a top-level resource followed by the resources naming it as parent.
type resourceGroup struct {
	name     string
	resource *domain.Resource
	children []resourceRef
}

type resourceRef struct {
	name     string
	resource *domain.Resource
}

type actionRef struct {
	key       string
	operation *domain.OperationConfig
}

// paramRow is one rendered field.
type paramRow struct {
	location string
	name     string
	typ      string
	required bool
	options  string
	desc     string
}

// groupResources orders resources by name and nests children under their parent.
// A child whose parent does not exist is rendered as a top-level group.
func groupResources(cfg domain.TestConfiguration) []resourceGroup {
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make(map[string][]resourceRef)
	for _, name := range names {
		parent := cfg[name].ParentGroup
		if parent != "" && parent != name && cfg[parent] != nil {
			children[parent] = append(children[parent], resourceRef{name: name, resource: cfg[name]})
		}
	}

	var groups []resourceGroup
	for _, name := range names {
		parent := cfg[name].ParentGroup
		if parent != "" && parent != name && cfg[parent] != nil {
			continue
		}

		groups = append(groups, resourceGroup{name: name, resource: cfg[name], children: children[name]})
	}

	return groups
}

// sortedActions returns the resource's actions ordered by key.
func sortedActions(resource *domain.Resource) []actionRef {
	keys := make([]string, 0, len(resource.Actions))
	for key := range resource.Actions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	actions := make([]actionRef, 0, len(keys))
	for _, key := range keys {
		actions = append(actions, actionRef{key: key, operation: resource.Actions[key]})
	}

	return actions
}

// parameterRows flattens non-body locations, ordered by location then name.
func parameterRows(op *domain.OperationConfig) []paramRow {
	locations := make([]string, 0, len(op.Parameters.Locations))
	for location := range op.Parameters.Locations {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	var rows []paramRow
	for _, location := range locations {
		rows = append(rows, fieldRows(location, op.Parameters.Locations[location])...)
	}

	return rows
}

// bodyRows returns the body fields and whether the body is an array template.
func bodyRows(op *domain.OperationConfig) ([]paramRow, bool) {
	if op.Parameters.Body == nil {
		return nil, false
	}

	return fieldRows(domain.LocationBody, op.Parameters.Body.Fields), op.Parameters.Body.IsArray
}

func fieldRows(location string, set domain.ParameterSet) []paramRow {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]paramRow, 0, len(names))
	for _, name := range names {
		cfg := set[name]

		typ := string(cfg.Type)
		if cfg.MultipleSelect {
			typ += " (multiple)"
		}

		rows = append(rows, paramRow{
			location: location,
			name:     name,
			typ:      typ,
			required: cfg.Required,
			options:  formatOptions(cfg),
			desc:     cfg.Description,
		})
	}

	return rows
}

// formatOptions returns the allowed values as a comma separated list.
func formatOptions(cfg domain.ParameterConfig) string {
	if !cfg.HasOptions() {
		return ""
	}

	if len(cfg.Options) == 0 {
		return "(none)"
	}

	values := make([]string, 0, len(cfg.Options))
	for _, option := range cfg.Options {
		values = append(values, fmt.Sprint(option))
	}

	return strings.Join(values, ", ")
}

// formatRow returns a one-line description of a field.
func formatRow(row paramRow) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s (%s, %s)", row.name, row.location, row.typ))

	if row.required {
		result.WriteString(" (required)")
	}

	if row.desc != "" {
		result.WriteString(": " + row.desc)
	}

	if row.options != "" {
		result.WriteString(" [" + row.options + "]")
	}

	return result.String()
}

// actionTitle returns e.g. "Create Item".
func actionTitle(action, resource string) string {
	if action == "" {
		return resource
	}

	return strings.ToUpper(action[:1]) + action[1:] + " " + resource
}

// bodyHeading names the body section.
func bodyHeading(isArray bool) string {
	if isArray {
		return "Request Body (array of)"
	}

	return "Request Body"
}

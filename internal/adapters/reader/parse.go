// Package reader discovers and parses raw OpenAPI documents from disk or the network.
package reader

import (
	"errors"
	"fmt"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"go.yaml.in/yaml/v4"
)

const (
	// maxDepth bounds nesting, including through aliases.
	maxDepth = 256
	// nodesPerByte and minNodeBudget bound the size of the expanded tree
	// relative to the source, so nested aliases cannot fan out unchecked.
	nodesPerByte  = 10
	minNodeBudget = 10000
)

var (
	errTooDeep = errors.New("document nesting too deep")

	// ErrTooLarge is returned when alias expansion exceeds the node budget.
	ErrTooLarge = errors.New("document expands beyond the node budget")
)

// treeBuilder converts yaml nodes while counting every node it produces.
type treeBuilder struct {
	budget int
}

// ParseDocument decodes a YAML or JSON document into an order-preserving raw tree.
func ParseDocument(source string, data []byte) (domain.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return domain.Document{}, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	b := &treeBuilder{budget: max(minNodeBudget, nodesPerByte*len(data))}

	tree, err := b.toTree(&root, 0)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	return domain.Document{Source: source, Root: tree}, nil
}

func (b *treeBuilder) toTree(node *yaml.Node, depth int) (any, error) {
	if node == nil {
		return nil, nil
	}

	if depth > maxDepth {
		return nil, errTooDeep
	}

	b.budget--
	if b.budget < 0 {
		return nil, ErrTooLarge
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return b.toTree(node.Content[0], depth+1)

	case yaml.MappingNode:
		m := domain.NewMap()

		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := b.toTree(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}

			m.Set(node.Content[i].Value, value)
		}

		return m, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))

		for _, child := range node.Content {
			value, err := b.toTree(child, depth+1)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		return items, nil

	case yaml.AliasNode:
		return b.toTree(node.Alias, depth+1)

	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return value, nil

	default:
		return nil, nil
	}
}

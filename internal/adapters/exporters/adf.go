package exporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

const adfFormat = "confluence"

// ADFExporter renders test configurations as Atlassian Document Format (ADF) for Confluence.
type ADFExporter struct{}

// NewADFExporter creates a new ADF exporter.
func NewADFExporter() *ADFExporter {
	return &ADFExporter{}
}

// Format returns the output format name.
func (e *ADFExporter) Format() string {
	return adfFormat
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level int `json:"level,omitempty"`
}

type adfMark struct {
	Type string `json:"type"`
}

// Export renders the test configuration as ADF JSON.
func (e *ADFExporter) Export(cfg domain.TestConfiguration, output io.Writer) error {
	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{e.heading("API Playground Reference", 1)},
	}

	for _, group := range groupResources(cfg) {
		adf.Content = append(adf.Content, e.heading(group.name, 2))
		adf.Content = append(adf.Content, e.resourceNodes(group.name, group.resource)...)

		for _, child := range group.children {
			adf.Content = append(adf.Content, e.heading(child.name, 3))
			adf.Content = append(adf.Content, e.resourceNodes(child.name, child.resource)...)
		}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (e *ADFExporter) heading(text string, level int) adfNode {
	return adfNode{
		Type:  "heading",
		Attrs: &adfAttrs{Level: level},
		Content: []adfNode{
			{Type: "text", Text: text},
		},
	}
}

func (e *ADFExporter) paragraph(text string) adfNode {
	return adfNode{
		Type: "paragraph",
		Content: []adfNode{
			{Type: "text", Text: text},
		},
	}
}

func (e *ADFExporter) codeText(text string) adfNode {
	return adfNode{
		Type: "text",
		Text: text,
		Marks: []adfMark{
			{Type: "code"},
		},
	}
}

func (e *ADFExporter) resourceNodes(name string, resource *domain.Resource) []adfNode {
	var nodes []adfNode

	for _, action := range sortedActions(resource) {
		nodes = append(nodes, e.operationNodes(name, action)...)
	}

	return nodes
}

func (e *ADFExporter) operationNodes(resource string, action actionRef) []adfNode {
	op := action.operation

	nodes := []adfNode{
		e.heading(actionTitle(action.key, resource), 4),
		{
			Type: "paragraph",
			Content: []adfNode{
				e.codeText(op.Verb),
				{Type: "text", Text: " " + op.Endpoint},
			},
		},
	}

	if op.Description != "" {
		nodes = append(nodes, e.paragraph(op.Description))
	}

	if rows := parameterRows(op); len(rows) > 0 {
		nodes = append(nodes, e.paragraph("Parameters"), e.fieldList(rows))
	}

	if rows, isArray := bodyRows(op); op.Parameters.Body != nil {
		nodes = append(nodes, e.paragraph(bodyHeading(isArray)))
		if len(rows) > 0 {
			nodes = append(nodes, e.fieldList(rows))
		}
	}

	// Divider between operations
	nodes = append(nodes, adfNode{Type: "rule"})

	return nodes
}

func (e *ADFExporter) fieldList(rows []paramRow) adfNode {
	items := make([]adfNode, 0, len(rows))

	for _, row := range rows {
		text := fmt.Sprintf(" (%s, %s)", row.location, row.typ)
		if row.required {
			text += " (required)"
		}
		if row.desc != "" {
			text += ": " + row.desc
		}
		if row.options != "" {
			text += " [" + row.options + "]"
		}

		items = append(items, adfNode{
			Type: "listItem",
			Content: []adfNode{
				{
					Type: "paragraph",
					Content: []adfNode{
						e.codeText(row.name),
						{Type: "text", Text: text},
					},
				},
			},
		})
	}

	return adfNode{
		Type:    "bulletList",
		Content: items,
	}
}

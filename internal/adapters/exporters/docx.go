package exporters

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const docxFormat = "docx"

// DocxExporter renders test configurations as Word (DOCX) documents.
type DocxExporter struct{}

// NewDocxExporter creates a new DOCX exporter.
func NewDocxExporter() *DocxExporter {
	return &DocxExporter{}
}

// Format returns the output format name.
func (e *DocxExporter) Format() string {
	return docxFormat
}

// Export renders the test configuration as DOCX.
func (e *DocxExporter) Export(cfg domain.TestConfiguration, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	_, _ = document.AddHeading("API Playground Reference", 0) // Level 0 = Title style
	document.AddParagraph(fmt.Sprintf("Resources: %d", len(cfg)))
	document.AddEmptyParagraph()

	for _, group := range groupResources(cfg) {
		_, _ = document.AddHeading(group.name, 1)
		e.addResource(document, group.name, group.resource)

		for _, child := range group.children {
			_, _ = document.AddHeading(child.name, 2)
			e.addResource(document, child.name, child.resource)
		}
	}

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (e *DocxExporter) addResource(document *docx.RootDoc, name string, resource *domain.Resource) {
	for _, action := range sortedActions(resource) {
		e.addOperation(document, name, action)
	}
}

func (e *DocxExporter) addOperation(document *docx.RootDoc, resource string, action actionRef) {
	op := action.operation

	_, _ = document.AddHeading(actionTitle(action.key, resource), 3)
	document.AddParagraph(fmt.Sprintf("%s %s", op.Verb, op.Endpoint))

	if op.Description != "" {
		document.AddParagraph(op.Description)
	}

	if rows := parameterRows(op); len(rows) > 0 {
		_, _ = document.AddHeading("Parameters", 4)

		for _, row := range rows {
			document.AddParagraph("• " + formatRow(row))
		}
	}

	if rows, isArray := bodyRows(op); op.Parameters.Body != nil {
		_, _ = document.AddHeading(bodyHeading(isArray), 4)

		for _, row := range rows {
			document.AddParagraph("• " + formatRow(row))
		}
	}

	document.AddEmptyParagraph()
}

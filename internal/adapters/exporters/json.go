package exporters

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

const jsonFormat = "json"

// JSONExporter writes the raw test configuration consumed by the playground UI.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns the output format name.
func (e *JSONExporter) Format() string {
	return jsonFormat
}

// Export writes the test configuration as indented JSON.
func (e *JSONExporter) Export(cfg domain.TestConfiguration, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode test configuration: %w", err)
	}

	return nil
}

// ForFormat returns the exporter registered for format.
func ForFormat(format string) (domain.Exporter, error) {
	switch format {
	case "json", "":
		return NewJSONExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	case "docx", "word":
		return NewDocxExporter(), nil
	case "confluence", "adf":
		return NewADFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, supportedFormats())
	}
}

func supportedFormats() string {
	formats := []string{jsonFormat, pdfFormat, docxFormat, adfFormat}
	sort.Strings(formats)

	return strings.Join(formats, ", ")
}

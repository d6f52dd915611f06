package domain

import "io"

// Exporter defines the interface for test configuration renderers.
type Exporter interface {
	// Export renders the test configuration to the target format.
	Export(cfg TestConfiguration, output io.Writer) error

	// Format returns the output format name (e.g., "pdf", "docx").
	Format() string
}

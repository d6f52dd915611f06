package exporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFormat      = "pdf"
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

// methodColors are the badge colors per HTTP verb.
var methodColors = map[string][3]int{
	"GET":    {97, 175, 254}, // Blue
	"POST":   {73, 204, 144}, // Green
	"PUT":    {252, 161, 48}, // Orange
	"DELETE": {249, 62, 62},  // Red
	"PATCH":  {80, 227, 194}, // Teal
}

// PDFExporter renders test configurations as PDF.
type PDFExporter struct {
	pdf      *gofpdf.Fpdf
	tocItems []tocItem
}

type tocItem struct {
	title  string
	level  int
	linkID int
}

// NewPDFExporter creates a new PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Format returns the output format name.
func (e *PDFExporter) Format() string {
	return pdfFormat
}

// Export renders the test configuration as PDF.
func (e *PDFExporter) Export(cfg domain.TestConfiguration, output io.Writer) error {
	e.pdf = gofpdf.New("P", "mm", "A4", "")
	e.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	e.pdf.SetDrawColor(180, 180, 180) // Light gray for all borders
	e.tocItems = nil

	groups := groupResources(cfg)

	// First pass: collect TOC items so content pages can link back
	e.collectTOC(groups)

	e.addTitlePage(len(cfg))
	e.addTableOfContents()
	e.addContent(groups)

	return e.pdf.Output(output)
}

func (e *PDFExporter) collectTOC(groups []resourceGroup) {
	for _, group := range groups {
		e.tocItems = append(e.tocItems, tocItem{title: group.name, level: 1, linkID: e.pdf.AddLink()})
		e.collectActions(group.resource, 2)

		for _, child := range group.children {
			e.tocItems = append(e.tocItems, tocItem{title: child.name, level: 2, linkID: e.pdf.AddLink()})
			e.collectActions(child.resource, 3)
		}
	}
}

func (e *PDFExporter) collectActions(resource *domain.Resource, level int) {
	for _, action := range sortedActions(resource) {
		title := fmt.Sprintf("%s %s", action.operation.Verb, action.operation.Endpoint)
		e.tocItems = append(e.tocItems, tocItem{title: title, level: level, linkID: e.pdf.AddLink()})
	}
}

func (e *PDFExporter) addTitlePage(resources int) {
	e.pdf.AddPage()

	e.pdf.SetFont("Arial", "B", 28)
	e.pdf.Ln(40)
	e.pdf.CellFormat(pdfPageWidth, 15, "API Playground Reference", "", 1, "C", false, 0, "")
	e.pdf.Ln(5)

	e.pdf.SetFont("Arial", "", 14)
	e.pdf.SetTextColor(100, 100, 100)
	e.pdf.CellFormat(pdfPageWidth, 8, fmt.Sprintf("%d resource(s)", resources), "", 1, "C", false, 0, "")
	e.pdf.SetTextColor(0, 0, 0)
}

func (e *PDFExporter) addTableOfContents() {
	e.pdf.AddPage()

	e.pdf.SetFont("Arial", "B", 20)
	e.pdf.CellFormat(pdfPageWidth, 10, "Table of Contents", "", 1, "", false, 0, "")
	e.pdf.Ln(8)

	for _, item := range e.tocItems {
		indent := float64(item.level-1) * 8

		switch item.level {
		case 1:
			e.pdf.SetFont("Arial", "B", 12)
		case 2:
			e.pdf.SetFont("Arial", "B", 10)
		default:
			e.pdf.SetFont("Arial", "", 9)
		}

		e.pdf.SetX(pdfMarginLeft + indent)
		title := item.title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		e.pdf.CellFormat(pdfPageWidth-indent, pdfLineHeight, title, "", 1, "", false, item.linkID, "")
	}
}

func (e *PDFExporter) addContent(groups []resourceGroup) {
	tocIndex := 0

	for _, group := range groups {
		e.pdf.AddPage()
		e.setLinkDest(tocIndex)
		tocIndex++

		e.addResourceHeader(group.name, 14)
		tocIndex = e.addActions(group.resource, tocIndex)

		for _, child := range group.children {
			e.checkPageBreak(40)
			e.setLinkDest(tocIndex)
			tocIndex++

			e.addResourceHeader(child.name, 12)
			tocIndex = e.addActions(child.resource, tocIndex)
		}
	}
}

func (e *PDFExporter) addActions(resource *domain.Resource, tocIndex int) int {
	for _, action := range sortedActions(resource) {
		e.checkPageBreak(50)
		e.setLinkDest(tocIndex)
		tocIndex++

		e.addOperation(action.operation)
	}

	return tocIndex
}

func (e *PDFExporter) setLinkDest(tocIndex int) {
	if tocIndex < len(e.tocItems) {
		e.pdf.SetLink(e.tocItems[tocIndex].linkID, -1, -1)
	}
}

func (e *PDFExporter) addResourceHeader(name string, size float64) {
	e.pdf.SetFont("Arial", "B", size)
	e.pdf.SetFillColor(240, 240, 240)
	e.pdf.CellFormat(pdfPageWidth, 8, name, "", 1, "", true, 0, "")
	e.pdf.Ln(4)
}

func (e *PDFExporter) addOperation(op *domain.OperationConfig) {
	// Method badge with color
	e.pdf.SetFont("Arial", "B", 11)

	color, ok := methodColors[op.Verb]
	if !ok {
		color = [3]int{128, 128, 128}
	}

	e.pdf.SetFillColor(color[0], color[1], color[2])
	e.pdf.SetTextColor(255, 255, 255)
	methodWidth := float64(len(op.Verb)*3) + 8
	e.pdf.CellFormat(methodWidth, 7, op.Verb, "", 0, "C", true, 0, "")

	e.pdf.SetTextColor(0, 0, 0)
	e.pdf.CellFormat(pdfPageWidth-methodWidth, 7, " "+op.Endpoint, "", 1, "", false, 0, "")
	e.pdf.Ln(2)

	if op.Description != "" {
		e.pdf.SetFont("Arial", "", 9)
		e.pdf.MultiCell(pdfPageWidth, 4, stripHTML(op.Description), "", "", false)
	}
	e.pdf.Ln(2)

	if rows := parameterRows(op); len(rows) > 0 {
		e.addSubHeader("Parameters")
		e.addFieldTable(rows)
	}

	if rows, isArray := bodyRows(op); op.Parameters.Body != nil {
		e.addSubHeader(bodyHeading(isArray))
		if len(rows) > 0 {
			e.addFieldTable(rows)
		}
	}

	// Separator
	e.pdf.Ln(2)
	e.pdf.SetDrawColor(220, 220, 220)
	e.pdf.Line(pdfMarginLeft, e.pdf.GetY(), pdfMarginLeft+pdfPageWidth, e.pdf.GetY())
	e.pdf.SetDrawColor(180, 180, 180) // Reset to standard light gray
	e.pdf.Ln(6)
}

func (e *PDFExporter) addSubHeader(title string) {
	e.pdf.SetFont("Arial", "B", 10)
	e.pdf.SetTextColor(60, 60, 60)
	e.pdf.CellFormat(pdfPageWidth, 6, title, "", 1, "", false, 0, "")
	e.pdf.SetTextColor(0, 0, 0)
}

func (e *PDFExporter) addFieldTable(rows []paramRow) {
	e.pdf.SetFont("Arial", "B", 8)
	e.pdf.SetFillColor(245, 245, 245)

	colWidths := []float64{35, 15, 25, 15, 45, 55}
	headers := []string{"Name", "In", "Type", "Required", "Options", "Description"}

	for i, header := range headers {
		e.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	e.pdf.Ln(-1)

	e.pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		required := "No"
		if row.required {
			required = "Yes"
		}

		contents := []string{row.name, row.location, row.typ, required, row.options, stripHTML(row.desc)}
		aligns := []string{"L", "L", "L", "C", "L", "L"}

		e.addTableRow(colWidths, contents, aligns)
	}
	e.pdf.Ln(3)
}

func (e *PDFExporter) addTableRow(colWidths []float64, contents []string, aligns []string) {
	// Calculate max height based on content wrapping
	maxLines := 1
	for i, content := range contents {
		lines := e.pdf.SplitLines([]byte(content), colWidths[i])
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	rowHeight := float64(maxLines) * pdfLineHeight

	e.checkPageBreak(rowHeight)

	startX := e.pdf.GetX()
	startY := e.pdf.GetY()

	for i, content := range contents {
		width := colWidths[i]

		e.pdf.SetXY(startX, startY)
		e.pdf.MultiCell(width, pdfLineHeight, content, "0", aligns[i], false)
		e.pdf.Rect(startX, startY, width, rowHeight, "D")

		startX += width
	}

	e.pdf.SetXY(pdfMarginLeft, startY+rowHeight)
}

func (e *PDFExporter) checkPageBreak(height float64) {
	_, pageHeight := e.pdf.GetPageSize()
	_, _, _, bottomMargin := e.pdf.GetMargins()

	if e.pdf.GetY()+height > pageHeight-bottomMargin-10 {
		e.pdf.AddPage()
	}
}

func stripHTML(s string) string {
	// Simple HTML tag removal
	result := s
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}

	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", "\"", "&#39;", "'", "\n\n", "\n")

	return strings.TrimSpace(replacer.Replace(result))
}

package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFMeta labels the document header
type PDFMeta struct {
	Title  string
	Author string
	Course string
}

// PDFGenerator renders markdown-ish draft content into an A4 PDF. Only the
// structure the generator emits is understood: #, ## and ### headings plus
// plain paragraphs.
type PDFGenerator struct{}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Render writes the document to a temp file and returns its path. The caller
// owns the file and must remove it.
func (g *PDFGenerator) Render(meta PDFMeta, content string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 9, title, "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	if meta.Author != "" {
		pdf.CellFormat(0, 6, "Author: "+meta.Author, "", 1, "L", false, 0, "")
	}
	if meta.Course != "" {
		pdf.CellFormat(0, 6, "Course: "+meta.Course, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Date: "+time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "### "):
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 7, strings.TrimPrefix(trimmed, "### "), "", "L", false)
		case strings.HasPrefix(trimmed, "## "):
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 7, strings.TrimPrefix(trimmed, "## "), "", "L", false)
		case strings.HasPrefix(trimmed, "# "):
			pdf.SetFont("Arial", "B", 14)
			pdf.MultiCell(0, 8, strings.TrimPrefix(trimmed, "# "), "", "L", false)
		default:
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, trimmed, "", "L", false)
		}
	}

	tmp, err := os.CreateTemp("", "draft-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	return path, nil
}

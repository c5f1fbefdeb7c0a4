package services

import (
	"os"
	"testing"

	"github.com/opencoder/opencoder-api/utils/pdfvalidation"
)

func TestRenderProducesValidPDF(t *testing.T) {
	g := NewPDFGenerator()

	content := "# Essay on sorting\n\n## Introduction\nQuicksort is fast.\n\n### Details\nPivot choice matters.\n\nPlain paragraph at the end."
	path, err := g.Render(PDFMeta{
		Title:  "Essay on sorting",
		Author: "Test Student",
		Course: "Algorithms",
	}, content)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	defer os.Remove(path)

	result, err := pdfvalidation.ValidatePDFFile(path)
	if err != nil {
		t.Fatalf("validation errored: %v", err)
	}
	if !result.Valid {
		t.Fatalf("rendered pdf rejected: %s", result.Error)
	}
	if result.PageCount < 1 {
		t.Fatalf("expected at least one page, got %d", result.PageCount)
	}
}

func TestRenderEmptyContent(t *testing.T) {
	g := NewPDFGenerator()

	path, err := g.Render(PDFMeta{}, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	defer os.Remove(path)

	result, err := pdfvalidation.ValidatePDFFile(path)
	if err != nil {
		t.Fatalf("validation errored: %v", err)
	}
	if !result.Valid {
		t.Fatalf("empty draft should still render a valid pdf: %s", result.Error)
	}
}

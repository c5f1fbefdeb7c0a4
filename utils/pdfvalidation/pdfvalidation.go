package pdfvalidation

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// maxSubmissionSizeMB caps rendered submissions; Classroom attachments this
// large point at a rendering bug, not a real draft
const maxSubmissionSizeMB = 50

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ValidatePDFFile checks that a rendered file on disk is a readable PDF with
// at least one page before it is handed to Drive
func ValidatePDFFile(path string) (*ValidationResult, error) {
	result := &ValidationResult{}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat pdf: %w", err)
	}
	result.FileSize = info.Size()

	if result.FileSize == 0 {
		result.Error = "Rendered PDF is empty"
		return result, nil
	}
	if result.FileSize > maxSubmissionSizeMB*1024*1024 {
		result.Error = fmt.Sprintf("Rendered PDF exceeds %dMB", maxSubmissionSizeMB)
		return result, nil
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		result.Error = "File is not a readable PDF"
		return result, nil
	}
	defer f.Close()

	result.PageCount = reader.NumPage()
	if result.PageCount < 1 {
		result.Error = "PDF contains no pages"
		return result, nil
	}

	result.Valid = true
	return result, nil
}

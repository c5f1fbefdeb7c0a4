package services

import "testing"

func TestIdentifyRequirements(t *testing.T) {
	n := NewNLPProcessor()

	text := "The essay is due on March 15, 2026. Write at least 500 words. " +
		"Use APA citation style throughout. Grading criteria: clarity and depth of analysis."

	req := n.IdentifyRequirements(text)
	if req.DueDate != "march 15, 2026" {
		t.Fatalf("unexpected due date: %q", req.DueDate)
	}
	if req.WordCount != "500" {
		t.Fatalf("unexpected word count: %q", req.WordCount)
	}
	if len(req.FormatRequirements) == 0 {
		t.Fatal("expected a format requirement for APA")
	}
	if len(req.GradingCriteria) != 1 || req.GradingCriteria[0] != "clarity and depth of analysis" {
		t.Fatalf("unexpected grading criteria: %v", req.GradingCriteria)
	}
}

func TestIdentifyRequirementsNumericDate(t *testing.T) {
	n := NewNLPProcessor()

	req := n.IdentifyRequirements("Submit before the deadline. Due by 03/15/2026 at midnight.")
	if req.DueDate != "03/15/2026" {
		t.Fatalf("unexpected due date: %q", req.DueDate)
	}
}

func TestIdentifyRequirementsEmpty(t *testing.T) {
	n := NewNLPProcessor()

	req := n.IdentifyRequirements("")
	if req.DueDate != "" || req.WordCount != "" {
		t.Fatalf("empty text should extract nothing: %+v", req)
	}
	if req.FormatRequirements == nil || req.GradingCriteria == nil {
		t.Fatal("slices should be non-nil")
	}
}

func TestExtractKeyInformation(t *testing.T) {
	n := NewNLPProcessor()

	text := "Quicksort partitions arrays. Quicksort recursion depth depends on pivot choice. Arrays shrink each pass."
	analysis := n.ExtractKeyInformation(text)

	if analysis.Summary != "Quicksort partitions arrays." {
		t.Fatalf("unexpected summary: %q", analysis.Summary)
	}
	if len(analysis.Keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if analysis.Keywords[0] != "quicksort" && analysis.Keywords[0] != "arrays" {
		t.Fatalf("expected a frequent keyword first, got %q", analysis.Keywords[0])
	}
}

func TestNormalizeText(t *testing.T) {
	n := NewNLPProcessor()

	got := n.NormalizeText("  hello\t\nworld!  ©  ")
	if got != "hello world!" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

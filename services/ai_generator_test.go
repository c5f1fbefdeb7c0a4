package services

import (
	"strings"
	"testing"

	"github.com/opencoder/opencoder-api/model"
)

func TestGenerateAppliesDefaults(t *testing.T) {
	g := NewAIGenerator("test-model", 0.7, NewNLPProcessor())

	assignment := &model.Assignment{Title: "Graph theory essay"}
	result, err := g.Generate(assignment, nil, GenerationParams{})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if result.Params.Model != "test-model" {
		t.Fatalf("expected default model, got %q", result.Params.Model)
	}
	if result.Params.Style != "academic" || result.Params.Depth != "standard" {
		t.Fatalf("expected default style/depth, got %+v", result.Params)
	}
	if !strings.HasPrefix(result.Content, "# Graph theory essay") {
		t.Fatalf("content should open with the title heading, got %q", result.Content[:40])
	}
	if !strings.Contains(result.Content, "academic style") {
		t.Fatal("content should mention the applied style")
	}
}

func TestGenerateUsesMaterialSummaries(t *testing.T) {
	g := NewAIGenerator("test-model", 0.7, NewNLPProcessor())

	assignment := &model.Assignment{Title: "Essay"}
	materials := []model.Material{
		{Content: "Dijkstra finds shortest paths. It uses a priority queue."},
		{Content: model.ContentDownloadFailed},
		{Content: ""},
	}

	result, err := g.Generate(assignment, materials, GenerationParams{Style: "technical"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(result.Content, "Dijkstra finds shortest paths.") {
		t.Fatal("expected material summary in content")
	}
	if strings.Contains(result.Content, model.ContentDownloadFailed) {
		t.Fatal("sentinel content must not leak into generated text")
	}
	if result.Params.Style != "technical" {
		t.Fatalf("explicit style must win, got %q", result.Params.Style)
	}
}

func TestGenerateNilAssignment(t *testing.T) {
	g := NewAIGenerator("test-model", 0.7, NewNLPProcessor())
	if _, err := g.Generate(nil, nil, GenerationParams{}); err == nil {
		t.Fatal("expected error for missing assignment")
	}
}

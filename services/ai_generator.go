package services

import (
	"fmt"
	"strings"

	"github.com/opencoder/opencoder-api/model"
)

// GenerationParams controls one generation run. Zero-valued fields fall back
// to the configured defaults.
type GenerationParams struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Style       string  `json:"style,omitempty" validate:"omitempty,oneof=academic creative technical"`
	Depth       string  `json:"depth,omitempty" validate:"omitempty,oneof=standard in-depth concise"`
}

// GenerationResult carries the generated content plus the parameters that
// actually applied after defaulting
type GenerationResult struct {
	Content string           `json:"content"`
	Params  GenerationParams `json:"params"`
}

// AIGenerator produces draft content for an assignment. The current
// implementation renders a deterministic markdown scaffold from the
// assignment context; swapping in a real model API only touches this type.
type AIGenerator struct {
	defaultModel       string
	defaultTemperature float64
	nlp                *NLPProcessor
}

// NewAIGenerator creates a generator with the configured model defaults
func NewAIGenerator(modelName string, temperature float64, nlp *NLPProcessor) *AIGenerator {
	return &AIGenerator{
		defaultModel:       modelName,
		defaultTemperature: temperature,
		nlp:                nlp,
	}
}

func (g *AIGenerator) applyDefaults(p GenerationParams) GenerationParams {
	if p.Model == "" {
		p.Model = g.defaultModel
	}
	if p.Temperature == 0 {
		p.Temperature = g.defaultTemperature
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 2000
	}
	if p.Style == "" {
		p.Style = "academic"
	}
	if p.Depth == "" {
		p.Depth = "standard"
	}
	return p
}

// Generate builds draft content for the assignment using its description and
// material text as context
func (g *AIGenerator) Generate(assignment *model.Assignment, materials []model.Material, params GenerationParams) (*GenerationResult, error) {
	if assignment == nil {
		return nil, fmt.Errorf("assignment context is required")
	}

	p := g.applyDefaults(params)

	title := assignment.Title
	if title == "" {
		title = "Assignment"
	}

	req := g.nlp.IdentifyRequirements(assignment.Description)

	var summaries []string
	for _, m := range materials {
		if m.Content == "" || m.Content == model.ContentDownloadFailed || m.Content == model.ContentDecodeFailed {
			continue
		}
		if s := g.nlp.ExtractKeyInformation(m.Content).Summary; s != "" {
			summaries = append(summaries, "- "+s)
		}
	}
	materialsSection := "No specific materials provided."
	if len(summaries) > 0 {
		materialsSection = strings.Join(summaries, "\n")
	}

	content := fmt.Sprintf(`# %s

## Introduction
This assignment addresses the key requirements outlined in the prompt. The following response is structured to meet the specific guidelines and criteria for evaluation.

## Main Content
The main content of this assignment covers the essential topics related to %s. The analysis is based on the materials provided and follows the required %s style with %s depth of analysis.

%s

## Conclusion
In conclusion, this assignment has addressed the key aspects of %s while adhering to the specified format requirements and grading criteria.

## References
[References would be included based on the materials provided]`,
		title, title, p.Style, p.Depth, materialsSection, title)

	if req.WordCount != "" {
		content += fmt.Sprintf("\n\n*Target length: %s words*", req.WordCount)
	}

	return &GenerationResult{
		Content: strings.TrimSpace(content),
		Params:  p,
	}, nil
}

package services

import (
	"regexp"
	"sort"
	"strings"
)

// Requirements holds structured constraints extracted from assignment text
type Requirements struct {
	DueDate            string   `json:"due_date,omitempty"`
	WordCount          string   `json:"word_count,omitempty"`
	FormatRequirements []string `json:"format_requirements"`
	GradingCriteria    []string `json:"grading_criteria"`
}

// TextAnalysis is a lightweight keyword and summary extraction result
type TextAnalysis struct {
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
}

// NLPProcessor extracts requirements and keywords from assignment and
// material text with pattern matching. It is heuristic on purpose; results
// feed the generation prompt, not any grading decision.
type NLPProcessor struct{}

// NewNLPProcessor creates a new NLP processor
func NewNLPProcessor() *NLPProcessor {
	return &NLPProcessor{}
}

var (
	dueDatePattern = regexp.MustCompile(`due\s+(?:on|by|before)?\s*(?:\w+day,?\s*)?` +
		`((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	wordCountPattern = regexp.MustCompile(`(\d+)(?:\s*-\s*\d+)?\s*words`)

	formatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([^.]*APA[^.]*\.)`),
		regexp.MustCompile(`(?i)([^.]*MLA[^.]*\.)`),
		regexp.MustCompile(`(?i)([^.]*Chicago[^.]*\.)`),
		regexp.MustCompile(`(?i)([^.]*double[- ]spaced[^.]*\.)`),
		regexp.MustCompile(`(?i)([^.]*font[^.]*\.)`),
		regexp.MustCompile(`(?i)([^.]*margin[^.]*\.)`),
	}

	criteriaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)grading criteria:([^.]+)`),
		regexp.MustCompile(`(?i)will be graded on:([^.]+)`),
		regexp.MustCompile(`(?i)(?:graded|evaluated) based on:([^.]+)`),
		regexp.MustCompile(`(?i)rubric:([^.]+)`),
	}

	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s.,;:!?()'"-]`)
	wordRe       = regexp.MustCompile(`[A-Za-z]+`)
)

// stop words excluded from keyword counting
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "have": {}, "this": {}, "that": {},
	"with": {}, "from": {}, "they": {}, "will": {}, "would": {},
	"there": {}, "their": {}, "what": {}, "about": {}, "which": {},
	"when": {}, "your": {}, "should": {}, "into": {}, "must": {},
	"each": {}, "than": {}, "them": {}, "been": {}, "were": {},
	"also": {}, "such": {}, "these": {}, "those": {}, "more": {},
}

// IdentifyRequirements scans text for due date, word count, formatting and
// grading criteria statements
func (n *NLPProcessor) IdentifyRequirements(text string) Requirements {
	req := Requirements{
		FormatRequirements: []string{},
		GradingCriteria:    []string{},
	}
	if text == "" {
		return req
	}

	lower := strings.ToLower(text)

	if m := dueDatePattern.FindStringSubmatch(lower); m != nil {
		req.DueDate = strings.TrimSpace(m[1])
	}
	if m := wordCountPattern.FindStringSubmatch(lower); m != nil {
		req.WordCount = m[1]
	}
	for _, p := range formatPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			req.FormatRequirements = append(req.FormatRequirements, strings.TrimSpace(m[1]))
		}
	}
	for _, p := range criteriaPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			req.GradingCriteria = append(req.GradingCriteria, strings.TrimSpace(m[1]))
		}
	}

	return req
}

// ExtractKeyInformation pulls the top keywords by frequency and a short
// summary (the leading sentence) out of free text
func (n *NLPProcessor) ExtractKeyInformation(text string) TextAnalysis {
	analysis := TextAnalysis{Keywords: []string{}}
	if text == "" {
		return analysis
	}

	freq := map[string]int{}
	for _, w := range wordRe.FindAllString(text, -1) {
		lw := strings.ToLower(w)
		if len(lw) < 3 {
			continue
		}
		if _, stop := stopWords[lw]; stop {
			continue
		}
		freq[lw]++
	}

	type kv struct {
		word  string
		count int
	}
	ranked := make([]kv, 0, len(freq))
	for w, c := range freq {
		ranked = append(ranked, kv{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	for i := 0; i < len(ranked) && i < 10; i++ {
		analysis.Keywords = append(analysis.Keywords, ranked[i].word)
	}

	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		analysis.Summary = strings.TrimSpace(text[:idx+1])
	} else {
		analysis.Summary = strings.TrimSpace(text)
	}

	return analysis
}

// NormalizeText collapses whitespace and strips characters outside basic
// punctuation
func (n *NLPProcessor) NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	normalized := whitespaceRe.ReplaceAllString(text, " ")
	normalized = specialsRe.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

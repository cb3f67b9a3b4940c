// Package assessment asks an LLM for a qualitative review of a snippet and
// turns whatever comes back, including failures, into an ExternalAnalysis.
package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/llm"
)

// ProviderSource resolves the provider to use for a call
type ProviderSource interface {
	Default() (llm.Provider, error)
}

// Request is the input of one assessment
type Request struct {
	Code       string
	Language   string
	SkillLevel domain.SkillLevel
}

// Review is the JSON document the model is asked to return
type Review struct {
	LogicIssues []string `json:"logic_issues"`
	StyleIssues []string `json:"style_issues"`
	Suggestions []string `json:"suggestions"`
	Score       float64  `json:"score"`
}

var reviewSchema = &llm.Schema{
	Name: "code-review",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"logic_issues": stringArray,
			"style_issues": stringArray,
			"suggestions":  stringArray,
			// Unbounded: out-of-range scores are clamped during aggregation.
			"score": map[string]any{"type": "number"},
		},
		"required": []any{"score"},
	},
}

var stringArray = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

const systemPrompt = "You are a patient programming mentor reviewing a learner's code. " +
	"Answer with a single JSON object and nothing else."

// Assessor calls the external assessment service. It never returns an
// error: every failure becomes an ExternalAnalysis without a score.
type Assessor struct {
	providers   ProviderSource
	logger      *slog.Logger
	maxTokens   int
	temperature float64
}

// Option configures an Assessor
type Option func(*Assessor)

// WithLogger sets the logger for degraded assessments
func WithLogger(l *slog.Logger) Option {
	return func(a *Assessor) { a.logger = l }
}

// WithMaxTokens caps the response length
func WithMaxTokens(n int) Option {
	return func(a *Assessor) { a.maxTokens = n }
}

// NewAssessor creates an assessor. providers may be nil, in which case
// every assessment degrades.
func NewAssessor(providers ProviderSource, opts ...Option) *Assessor {
	a := &Assessor{
		providers:   providers,
		logger:      slog.Default(),
		maxTokens:   1024,
		temperature: 0.3,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess requests a review and maps it to an ExternalAnalysis. The call
// honours ctx for cancellation and deadlines.
func (a *Assessor) Assess(ctx context.Context, req Request) domain.ExternalAnalysis {
	provider, err := a.provider()
	if err != nil {
		return a.failed("no assessment provider available", err)
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{llm.UserMessage(buildPrompt(req))},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		JSON:        true,
	})
	if err != nil {
		return a.failed("assessment request failed", err)
	}

	var review Review
	if err := llm.DecodeJSON(reviewSchema, resp.Content, &review); err != nil {
		return a.failed("assessment response was not usable", err)
	}

	score := review.Score
	return domain.ExternalAnalysis{
		Text:        summarize(review),
		Score:       &score,
		Suggestions: append([]string{}, review.Suggestions...),
	}
}

func (a *Assessor) provider() (llm.Provider, error) {
	if a.providers == nil {
		return nil, llm.ErrNoDefaultProvider
	}
	return a.providers.Default()
}

func (a *Assessor) failed(msg string, err error) domain.ExternalAnalysis {
	a.logger.Warn("external assessment degraded", "reason", msg, "error", err)
	return domain.ExternalAnalysis{
		Text:   fmt.Sprintf("External analysis unavailable: %s: %v", msg, err),
		Failed: true,
	}
}

func buildPrompt(req Request) string {
	level := req.SkillLevel
	if level == "" {
		level = domain.SkillBeginner
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review the following %s code written by a %s-level learner.\n\n", req.Language, level)
	b.WriteString("Assess:\n")
	b.WriteString("1. Whether the logic is correct\n")
	b.WriteString("2. Whether the style is good\n")
	b.WriteString("3. What could be improved\n")
	fmt.Fprintf(&b, "4. Advice suited to a %s learner\n\n", level)
	b.WriteString("Code:\n```\n")
	b.WriteString(req.Code)
	b.WriteString("\n```\n\n")
	b.WriteString("Return JSON with the keys logic_issues (list of strings), style_issues (list of strings), ")
	b.WriteString("suggestions (list of strings) and score (number from 0 to 100).")
	return b.String()
}

// summarize renders a review as readable text
func summarize(r Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reviewer score: %.0f/100", r.Score)
	writeSection(&b, "Logic issues", r.LogicIssues)
	writeSection(&b, "Style issues", r.StyleIssues)
	writeSection(&b, "Suggestions", r.Suggestions)
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:", title)
	for _, item := range items {
		fmt.Fprintf(b, "\n- %s", item)
	}
}

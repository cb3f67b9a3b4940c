package domain

import (
	"fmt"
	"strings"
)

// IssueType classifies what kind of problem a CodeIssue describes
type IssueType string

const (
	IssueSyntax      IssueType = "syntax"
	IssueLogic       IssueType = "logic"
	IssueStyle       IssueType = "style"
	IssuePerformance IssueType = "performance"
	IssueSecurity    IssueType = "security"
)

// Severity is the qualitative impact tier of an issue
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity converts a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	}
	return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
}

// CodeIssue is one detected problem or note in a code snippet.
// LineNumber is 1-based; 0 means the issue applies to the whole snippet.
type CodeIssue struct {
	LineNumber  int       `json:"line_number"`
	Type        IssueType `json:"issue_type"`
	Description string    `json:"description"`
	Suggestion  string    `json:"suggestion"`
	Severity    Severity  `json:"severity"`
	Confidence  float64   `json:"confidence"`
}

// ExternalAnalysis is what the external assessment service returned.
// Score is nil when the service failed or did not supply a usable score.
type ExternalAnalysis struct {
	Text        string   `json:"analysis"`
	Score       *float64 `json:"score,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Failed      bool     `json:"failed,omitempty"`
}

// HasScore reports whether a numeric external score is available
func (e ExternalAnalysis) HasScore() bool {
	return e.Score != nil
}

// AnalysisResult is the aggregate output of one analysis request
type AnalysisResult struct {
	SyntaxIssues      []CodeIssue      `json:"syntax_issues"`
	PerformanceIssues []CodeIssue      `json:"performance_issues"`
	SecurityIssues    []CodeIssue      `json:"security_issues"`
	External          ExternalAnalysis `json:"ai_analysis"`
	OverallScore      float64          `json:"overall_score"`
}

// Issues returns every issue in syntax, performance, security order
func (r *AnalysisResult) Issues() []CodeIssue {
	all := make([]CodeIssue, 0, len(r.SyntaxIssues)+len(r.PerformanceIssues)+len(r.SecurityIssues))
	all = append(all, r.SyntaxIssues...)
	all = append(all, r.PerformanceIssues...)
	all = append(all, r.SecurityIssues...)
	return all
}

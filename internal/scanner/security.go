package scanner

import (
	"strings"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// Security runs the language-agnostic security heuristics. These are
// textual co-occurrence checks, not taint analysis.
func Security(code string) []domain.CodeIssue {
	var issues []domain.CodeIssue

	lower := strings.ToLower(code)
	if strings.Contains(lower, "sql") && strings.Contains(lower, "input(") {
		issues = append(issues, domain.CodeIssue{
			LineNumber:  0,
			Type:        domain.IssueSecurity,
			Description: "Possible SQL injection risk",
			Suggestion:  "Use parameterized queries instead of building SQL from user input",
			Severity:    domain.SeverityHigh,
			Confidence:  0.7,
		})
	}

	if idx := strings.Index(code, "eval("); idx >= 0 {
		issues = append(issues, domain.CodeIssue{
			LineNumber:  lineOf(code, idx),
			Type:        domain.IssueSecurity,
			Description: "Use of eval() is a security risk",
			Suggestion:  "Avoid eval(); consider ast.literal_eval() or an explicit parser",
			Severity:    domain.SeverityHigh,
			Confidence:  0.9,
		})
	}

	return issues
}

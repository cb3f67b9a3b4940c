// Package scoring turns scanner findings and an optional external score
// into a single 0-100 score and a tiered feedback message.
package scoring

import (
	"math"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// penalties holds the points deducted per issue of each severity
type penalties struct {
	high, medium, low float64
}

var (
	syntaxPenalties      = penalties{high: 20, medium: 10, low: 5}
	performancePenalties = penalties{high: 15, medium: 8, low: 3}
	securityPenalties    = penalties{high: 25, medium: 15, low: 8}
)

func (p penalties) of(sev domain.Severity) float64 {
	switch sev {
	case domain.SeverityHigh:
		return p.high
	case domain.SeverityMedium:
		return p.medium
	case domain.SeverityLow:
		return p.low
	}
	return 0
}

func (p penalties) total(issues []domain.CodeIssue) float64 {
	var sum float64
	for _, iss := range issues {
		sum += p.of(iss.Severity)
	}
	return sum
}

// LocalScore is 100 minus the weighted penalties, floored at zero
func LocalScore(syntax, performance, security []domain.CodeIssue) float64 {
	score := 100 -
		syntaxPenalties.total(syntax) -
		performancePenalties.total(performance) -
		securityPenalties.total(security)
	return math.Max(0, score)
}

// Aggregate combines the local penalty score with an optional external
// score. When external is present the result is the mean of both, with the
// external score clamped into [0,100]. The result is rounded to one decimal.
func Aggregate(syntax []domain.CodeIssue, external *float64, performance, security []domain.CodeIssue) float64 {
	score := LocalScore(syntax, performance, security)
	if external != nil {
		score = (score + clamp(*external, 0, 100)) / 2
	}
	return round1(score)
}

// AggregateResult computes the overall score of r and stores it
func AggregateResult(r *domain.AnalysisResult) float64 {
	r.OverallScore = Aggregate(r.SyntaxIssues, r.External.Score, r.PerformanceIssues, r.SecurityIssues)
	return r.OverallScore
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

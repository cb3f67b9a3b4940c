package scoring

import "fmt"

// ScoreTier is the feedback band a score falls into
type ScoreTier int

const (
	TierCorrective ScoreTier = iota
	TierCautionary
	TierNeutral
	TierPositive
	TierExcellent
)

// TierFor maps a score to its band
func TierFor(score float64) ScoreTier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 80:
		return TierPositive
	case score >= 70:
		return TierNeutral
	case score >= 60:
		return TierCautionary
	default:
		return TierCorrective
	}
}

// Message returns the feedback sentence for the tier
func (t ScoreTier) Message() string {
	switch t {
	case TierExcellent:
		return "🎉 Excellent! Your code quality is high, keep it up!"
	case TierPositive:
		return "👍 Good job! The code is solid, with a few small things to improve."
	case TierNeutral:
		return "📝 Not bad! The code is basically correct, but there is room for improvement."
	case TierCautionary:
		return "⚠️ Needs improvement. The code has some problems worth a careful look."
	case TierCorrective:
		return "🔧 Needs attention. The code has several problems; consider revisiting it."
	}
	return ""
}

func (t ScoreTier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierPositive:
		return "positive"
	case TierNeutral:
		return "neutral"
	case TierCautionary:
		return "cautionary"
	case TierCorrective:
		return "corrective"
	}
	return "unknown"
}

// Compose builds the feedback text for a score, appending the issue count
// when there is anything to address.
func Compose(score float64, issuesCount int) string {
	feedback := TierFor(score).Message()
	if issuesCount > 0 {
		feedback += fmt.Sprintf("\nFound %d issue(s) to address.", issuesCount)
	}
	return feedback
}

package scanner

import (
	"strings"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// loopRule describes how a language family spells an unbounded loop and
// the keyword that exits it.
type loopRule struct {
	markers []string
	exit    string
}

var loopRules = map[family]loopRule{
	familyPython: {markers: []string{"while True:"}, exit: "break"},
	familyCLike:  {markers: []string{"while (true)", "while(true)", "for (;;)"}, exit: "break"},
}

// Performance flags a potentially infinite loop: a loop marker is present
// and the exit keyword appears nowhere in the snippet.
func Performance(code, language string) []domain.CodeIssue {
	rule, ok := loopRules[familyOf(language)]
	if !ok {
		return nil
	}

	if !containsAny(code, rule.markers) || strings.Contains(code, rule.exit) {
		return nil
	}

	return []domain.CodeIssue{{
		LineNumber:  0,
		Type:        domain.IssuePerformance,
		Description: "Possible infinite loop detected",
		Suggestion:  "Make sure the loop has a reachable exit condition",
		Severity:    domain.SeverityHigh,
		Confidence:  0.8,
	}}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

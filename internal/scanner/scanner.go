// Package scanner implements the rule-based code checks that run before any
// external assessment. Every check is pure and never fails: a check that does
// not apply to a language simply reports nothing.
package scanner

import (
	"strings"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// Scan runs every sub-scan and returns their issues in syntax, performance,
// security order.
func Scan(code, language string) []domain.CodeIssue {
	var issues []domain.CodeIssue
	issues = append(issues, Syntax(code, language)...)
	issues = append(issues, Performance(code, language)...)
	issues = append(issues, Security(code)...)
	return issues
}

// family groups language aliases that share the same rules
type family int

const (
	familyUnknown family = iota
	familyPython
	familyCLike
)

var families = map[string]family{
	"python":     familyPython,
	"python3":    familyPython,
	"py":         familyPython,
	"javascript": familyCLike,
	"js":         familyCLike,
	"typescript": familyCLike,
	"ts":         familyCLike,
	"java":       familyCLike,
	"c":          familyCLike,
	"cpp":        familyCLike,
	"c++":        familyCLike,
	"csharp":     familyCLike,
	"c#":         familyCLike,
}

func familyOf(language string) family {
	return families[strings.ToLower(strings.TrimSpace(language))]
}

// IsPython reports whether language names the python family
func IsPython(language string) bool {
	return familyOf(language) == familyPython
}

// lineOf returns the 1-based line holding byte offset off
func lineOf(code string, off int) int {
	return strings.Count(code[:off], "\n") + 1
}

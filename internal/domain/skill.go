package domain

import (
	"fmt"
	"strings"
)

// SkillLevel is the learner tier that drives topic selection
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// SkillLevels lists every tier from lowest to highest
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}

// ParseSkillLevel converts a string into a SkillLevel.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseSkillLevel(s string) (SkillLevel, error) {
	switch SkillLevel(strings.ToLower(strings.TrimSpace(s))) {
	case SkillBeginner:
		return SkillBeginner, nil
	case SkillIntermediate:
		return SkillIntermediate, nil
	case SkillAdvanced:
		return SkillAdvanced, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSkillLevel, s)
}

// Valid reports whether l is one of the known tiers
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// Next returns the tier above l. Advanced is the ceiling and maps to itself.
func (l SkillLevel) Next() SkillLevel {
	switch l {
	case SkillBeginner:
		return SkillIntermediate
	case SkillIntermediate:
		return SkillAdvanced
	case SkillAdvanced:
		return SkillAdvanced
	}
	return l
}

func (l SkillLevel) String() string {
	return string(l)
}

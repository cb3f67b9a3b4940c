package curriculum

import (
	"fmt"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// UpdateProgress stores and returns the share of path topics present in
// completed, as a percentage. Ids not on the path are ignored.
func UpdateProgress(path *domain.LearningPath, completed []string) (float64, error) {
	if len(path.Topics) == 0 {
		return 0, fmt.Errorf("update progress for user %s: %w", path.UserID, domain.ErrEmptyPath)
	}

	done := toSet(completed)
	count := 0
	for _, t := range path.Topics {
		if done[t.ID] {
			count++
		}
	}

	path.Progress = 100 * float64(count) / float64(len(path.Topics))
	return path.Progress, nil
}

// ProgressTier is the encouragement band a progress value falls into
type ProgressTier int

const (
	ProgressStarting ProgressTier = iota
	ProgressEarly
	ProgressHalfway
	ProgressMostly
	ProgressNearlyDone
)

// ProgressTierFor maps a progress percentage to its band
func ProgressTierFor(progress float64) ProgressTier {
	switch {
	case progress >= 90:
		return ProgressNearlyDone
	case progress >= 70:
		return ProgressMostly
	case progress >= 50:
		return ProgressHalfway
	case progress >= 30:
		return ProgressEarly
	default:
		return ProgressStarting
	}
}

// Message returns the encouragement for the tier
func (t ProgressTier) Message() string {
	switch t {
	case ProgressNearlyDone:
		return "🎉 Amazing! You are close to finishing this path, keep the momentum going!"
	case ProgressMostly:
		return "👍 Great work! Most of the path is done, keep it up!"
	case ProgressHalfway:
		return "📚 Good progress! You are halfway there, persistence pays off!"
	case ProgressEarly:
		return "💪 A good start! Learning is gradual, stay patient!"
	case ProgressStarting:
		return "🚀 Your journey has just begun! Every step counts, believe in yourself!"
	}
	return ""
}

// Encourage returns the encouragement text for a progress percentage
func Encourage(progress float64) string {
	return ProgressTierFor(progress).Message()
}

package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// SessionType is the kind of mentoring interaction a session records
type SessionType string

const (
	SessionCodeReview      SessionType = "code_review"
	SessionPractice        SessionType = "practice"
	SessionProjectGuidance SessionType = "project_guidance"
)

// ParseSessionType converts a string into a SessionType.
// An empty string defaults to code_review.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case "":
		return SessionCodeReview, nil
	case SessionCodeReview, SessionPractice, SessionProjectGuidance:
		return SessionType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSessionType, s)
}

// LearningSession is one persisted analysis interaction
type LearningSession struct {
	ID              int64       `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	Type            SessionType `json:"session_type"`
	Language        string      `json:"language"`
	Topic           string      `json:"topic,omitempty"`
	CodeContent     string      `json:"code_content,omitempty"`
	Feedback        string      `json:"ai_feedback,omitempty"`
	Score           float64     `json:"score"`
	DurationMinutes int         `json:"duration_minutes"`
	Issues          []CodeIssue `json:"issues,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// SessionStats summarises a user's sessions
type SessionStats struct {
	TotalSessions        int     `json:"total_sessions"`
	AverageScore         float64 `json:"average_score"`
	BestScore            float64 `json:"best_score"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	TotalDurationHours   float64 `json:"total_duration_hours"`
}

// ComputeStats summarises sessions. Only sessions with a positive score
// contribute to the average.
func ComputeStats(sessions []LearningSession) SessionStats {
	stats := SessionStats{TotalSessions: len(sessions)}

	var sum float64
	var scored int
	for _, s := range sessions {
		if s.Score > 0 {
			sum += s.Score
			scored++
		}
		if s.Score > stats.BestScore {
			stats.BestScore = s.Score
		}
		stats.TotalDurationMinutes += s.DurationMinutes
	}

	if scored > 0 {
		stats.AverageScore = roundTo(sum/float64(scored), 2)
	}
	stats.TotalDurationHours = roundTo(float64(stats.TotalDurationMinutes)/60, 1)
	return stats
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

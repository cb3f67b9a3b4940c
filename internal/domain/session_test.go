package domain

import (
	"errors"
	"testing"
)

func TestParseSessionType(t *testing.T) {
	tests := []struct {
		in      string
		want    SessionType
		wantErr bool
	}{
		{"", SessionCodeReview, false},
		{"code_review", SessionCodeReview, false},
		{"practice", SessionPractice, false},
		{"project_guidance", SessionProjectGuidance, false},
		{"pairing", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSessionType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSessionType) {
				t.Errorf("ParseSessionType(%q) error = %v; want ErrInvalidSessionType", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSessionType(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := ComputeStats(nil)
		if stats != (SessionStats{}) {
			t.Errorf("ComputeStats(nil) = %+v; want zero value", stats)
		}
	})

	t.Run("zero scores are excluded from the average", func(t *testing.T) {
		sessions := []LearningSession{
			{Score: 80, DurationMinutes: 30},
			{Score: 0, DurationMinutes: 15},
			{Score: 95.5, DurationMinutes: 45},
			{Score: 70, DurationMinutes: 10},
		}
		stats := ComputeStats(sessions)

		if stats.TotalSessions != 4 {
			t.Errorf("TotalSessions = %d; want 4", stats.TotalSessions)
		}
		if stats.AverageScore != 81.83 {
			t.Errorf("AverageScore = %v; want 81.83", stats.AverageScore)
		}
		if stats.BestScore != 95.5 {
			t.Errorf("BestScore = %v; want 95.5", stats.BestScore)
		}
		if stats.TotalDurationMinutes != 100 {
			t.Errorf("TotalDurationMinutes = %d; want 100", stats.TotalDurationMinutes)
		}
		if stats.TotalDurationHours != 1.7 {
			t.Errorf("TotalDurationHours = %v; want 1.7", stats.TotalDurationHours)
		}
	})
}

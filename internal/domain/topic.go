package domain

import "time"

// LearningTopic is one entry of the topic catalog
type LearningTopic struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description" yaml:"description"`
	Difficulty     SkillLevel `json:"difficulty" yaml:"difficulty"`
	EstimatedHours int        `json:"estimated_hours" yaml:"estimated_hours"`
	Prerequisites  []string   `json:"prerequisites" yaml:"prerequisites"`
	Tags           []string   `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy so callers never share slices with the catalog
func (t LearningTopic) Clone() LearningTopic {
	c := t
	c.Prerequisites = append([]string{}, t.Prerequisites...)
	c.Tags = append([]string{}, t.Tags...)
	return c
}

// LearningPath is a generated, per-user ordered curriculum
type LearningPath struct {
	UserID                  string          `json:"user_id"`
	CurrentLevel            SkillLevel      `json:"current_level"`
	TargetLevel             SkillLevel      `json:"target_level"`
	Topics                  []LearningTopic `json:"topics"`
	EstimatedCompletionTime int             `json:"estimated_completion_time"` // hours
	Progress                float64         `json:"progress"`
	CompletedTopicIDs       []string        `json:"completed_topic_ids"`
	Tips                    []string        `json:"tips,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// TotalHours sums the estimated hours of every topic on the path
func (p *LearningPath) TotalHours() int {
	total := 0
	for _, t := range p.Topics {
		total += t.EstimatedHours
	}
	return total
}

// CompletedSet returns the completed topic ids as a set
func (p *LearningPath) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedTopicIDs))
	for _, id := range p.CompletedTopicIDs {
		set[id] = true
	}
	return set
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserProfile is a registered learner
type UserProfile struct {
	ID                   uuid.UUID  `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	FullName             string     `json:"full_name,omitempty"`
	SkillLevel           SkillLevel `json:"skill_level"`
	ProgrammingLanguages []string   `json:"programming_languages"`
	LearningGoals        []string   `json:"learning_goals"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewUserProfile creates a beginner profile with a fresh id
func NewUserProfile(username, email, fullName string) (*UserProfile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &UserProfile{
		ID:                   uuid.New(),
		Username:             username,
		Email:                email,
		FullName:             strings.TrimSpace(fullName),
		SkillLevel:           SkillBeginner,
		ProgrammingLanguages: []string{},
		LearningGoals:        []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// UserUpdate carries the mutable fields of a profile. Nil fields are left as is.
type UserUpdate struct {
	FullName             *string   `json:"full_name,omitempty"`
	SkillLevel           *string   `json:"skill_level,omitempty"`
	ProgrammingLanguages *[]string `json:"programming_languages,omitempty"`
	LearningGoals        *[]string `json:"learning_goals,omitempty"`
}

// Apply merges u into p. The skill level is validated before anything changes.
func (u UserUpdate) Apply(p *UserProfile) error {
	var level SkillLevel
	if u.SkillLevel != nil {
		parsed, err := ParseSkillLevel(*u.SkillLevel)
		if err != nil {
			return err
		}
		level = parsed
	}

	if u.FullName != nil {
		p.FullName = strings.TrimSpace(*u.FullName)
	}
	if level != "" {
		p.SkillLevel = level
	}
	if u.ProgrammingLanguages != nil {
		p.ProgrammingLanguages = append([]string{}, (*u.ProgrammingLanguages)...)
	}
	if u.LearningGoals != nil {
		p.LearningGoals = append([]string{}, (*u.LearningGoals)...)
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUserProfile(t *testing.T) {
	p, err := NewUserProfile(" ada ", "ada@example.com", "Ada Lovelace")
	if err != nil {
		t.Fatalf("NewUserProfile() error = %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("NewUserProfile() should generate ID")
	}
	if p.Username != "ada" {
		t.Errorf("Username = %q; want ada", p.Username)
	}
	if p.SkillLevel != SkillBeginner {
		t.Errorf("SkillLevel = %q; want beginner", p.SkillLevel)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestNewUserProfile_Invalid(t *testing.T) {
	if _, err := NewUserProfile("", "a@b.c", ""); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("empty username error = %v; want ErrInvalidUsername", err)
	}
	if _, err := NewUserProfile("bob", "not-an-email", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email error = %v; want ErrInvalidEmail", err)
	}
}

func TestUserUpdate_Apply(t *testing.T) {
	t.Run("updates fields", func(t *testing.T) {
		p, _ := NewUserProfile("ada", "ada@example.com", "")
		level := "intermediate"
		name := "Ada"
		langs := []string{"python", "go"}

		err := UserUpdate{FullName: &name, SkillLevel: &level, ProgrammingLanguages: &langs}.Apply(p)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if p.SkillLevel != SkillIntermediate {
			t.Errorf("SkillLevel = %q; want intermediate", p.SkillLevel)
		}
		if p.FullName != "Ada" {
			t.Errorf("FullName = %q; want Ada", p.FullName)
		}
		if len(p.ProgrammingLanguages) != 2 {
			t.Errorf("len(ProgrammingLanguages) = %d; want 2", len(p.ProgrammingLanguages))
		}
	})

	t.Run("invalid level leaves profile unchanged", func(t *testing.T) {
		p, _ := NewUserProfile("ada", "ada@example.com", "Ada")
		level := "wizard"
		name := "Changed"

		err := UserUpdate{FullName: &name, SkillLevel: &level}.Apply(p)
		if !errors.Is(err, ErrInvalidSkillLevel) {
			t.Fatalf("Apply() error = %v; want ErrInvalidSkillLevel", err)
		}
		if p.FullName != "Ada" {
			t.Errorf("FullName = %q; want Ada", p.FullName)
		}
	})
}

package curriculum

import (
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	if c.Len() != 7 {
		t.Errorf("Len() = %d; want 7", c.Len())
	}

	hours := map[string]int{
		"python_basics":          10,
		"python_functions":       8,
		"python_oop":             12,
		"python_data_structures": 6,
		"python_algorithms":      15,
		"python_web":             20,
		"python_ai":              25,
	}
	for id, want := range hours {
		topic, err := c.Topic(id)
		if err != nil {
			t.Errorf("Topic(%q) error = %v", id, err)
			continue
		}
		if topic.EstimatedHours != want {
			t.Errorf("Topic(%q).EstimatedHours = %d; want %d", id, topic.EstimatedHours, want)
		}
	}
}

func TestCatalog_Topic_NotFound(t *testing.T) {
	c := MustDefaultCatalog()
	if _, err := c.Topic("rust_basics"); !errors.Is(err, domain.ErrTopicNotFound) {
		t.Errorf("Topic() error = %v; want ErrTopicNotFound", err)
	}
}

func TestCatalog_SelectForLevel(t *testing.T) {
	c := MustDefaultCatalog()

	tests := []struct {
		level domain.SkillLevel
		want  []string
	}{
		{domain.SkillBeginner, []string{"python_basics", "python_data_structures", "python_functions"}},
		{domain.SkillIntermediate, []string{"python_oop", "python_algorithms", "python_web"}},
		{domain.SkillAdvanced, []string{"python_ai"}},
		{domain.SkillLevel("unknown"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := c.SelectForLevel(tt.level)
			if len(got) != len(tt.want) {
				t.Fatalf("SelectForLevel() returned %d topics; want %d", len(got), len(tt.want))
			}
			for i, topic := range got {
				if topic.ID != tt.want[i] {
					t.Errorf("topic[%d] = %q; want %q", i, topic.ID, tt.want[i])
				}
			}
		})
	}
}

func TestCatalog_SelectForLevel_ReturnsCopies(t *testing.T) {
	c := MustDefaultCatalog()
	first := c.SelectForLevel(domain.SkillBeginner)
	first[0].Title = "mutated"
	first[1].Prerequisites[0] = "mutated"

	second := c.SelectForLevel(domain.SkillBeginner)
	if second[0].Title == "mutated" || second[1].Prerequisites[0] == "mutated" {
		t.Error("SelectForLevel() should return independent copies")
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	levels := map[domain.SkillLevel][]string{
		domain.SkillBeginner:     {"a"},
		domain.SkillIntermediate: {"a"},
		domain.SkillAdvanced:     {"a"},
	}
	valid := domain.LearningTopic{ID: "a", Difficulty: domain.SkillBeginner, EstimatedHours: 1}

	tests := []struct {
		name    string
		topics  []domain.LearningTopic
		levels  map[domain.SkillLevel][]string
		wantErr string
	}{
		{"duplicate id", []domain.LearningTopic{valid, valid}, levels, "duplicate topic"},
		{
			"unknown prerequisite",
			[]domain.LearningTopic{{ID: "a", Difficulty: domain.SkillBeginner, EstimatedHours: 1, Prerequisites: []string{"ghost"}}},
			levels,
			"unknown prerequisite",
		},
		{
			"non-positive hours",
			[]domain.LearningTopic{{ID: "a", Difficulty: domain.SkillBeginner}},
			levels,
			"estimated hours",
		},
		{"missing level", []domain.LearningTopic{valid}, map[domain.SkillLevel][]string{domain.SkillBeginner: {"a"}}, "no topics selected"},
		{
			"unknown selection",
			[]domain.LearningTopic{valid},
			map[domain.SkillLevel][]string{
				domain.SkillBeginner:     {"a"},
				domain.SkillIntermediate: {"b"},
				domain.SkillAdvanced:     {"a"},
			},
			"unknown topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.topics, tt.levels)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewCatalog() error = %v; want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	if _, err := ParseCatalog([]byte("topics: [")); err == nil {
		t.Error("ParseCatalog() should fail on malformed YAML")
	}
}

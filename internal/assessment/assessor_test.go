package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/llm"
	"github.com/felixgeelhaar/codementor/internal/scoring"
)

type stubProvider struct {
	content string
	err     error
	last    *llm.Request
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, req *llm.Request) (*llm.Response, error) {
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content}, nil
}

func registryWith(p llm.Provider) *llm.Registry {
	r := llm.NewRegistry()
	if p != nil {
		r.Register(p.Name(), p)
	}
	return r
}

func TestAssessor_Assess_OutOfRangeScoreIsKept(t *testing.T) {
	p := &stubProvider{content: `{"logic_issues": [], "suggestions": [], "score": 120}`}

	got := NewAssessor(registryWith(p)).Assess(context.Background(), Request{Code: "x = 1", Language: "python"})

	if got.Failed {
		t.Fatalf("Assess() failed: %s", got.Text)
	}
	if got.Score == nil || *got.Score != 120 {
		t.Fatalf("Score = %v, want 120", got.Score)
	}
	if total := scoring.Aggregate(nil, got.Score, nil, nil); total != 100 {
		t.Errorf("Aggregate() = %v, want 100 with the external score clamped", total)
	}
}

func TestAssessor_Assess_Success(t *testing.T) {
	p := &stubProvider{content: "```json\n" + `{
		"logic_issues": ["off by one in loop"],
		"style_issues": [],
		"suggestions": ["use enumerate"],
		"score": 85
	}` + "\n```"}
	a := NewAssessor(registryWith(p))

	got := a.Assess(context.Background(), Request{Code: "print(1)", Language: "python", SkillLevel: domain.SkillBeginner})

	if got.Failed {
		t.Fatalf("Assess() failed: %s", got.Text)
	}
	if got.Score == nil || *got.Score != 85 {
		t.Errorf("Score = %v, want 85", got.Score)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != "use enumerate" {
		t.Errorf("Suggestions = %v", got.Suggestions)
	}
	if !strings.Contains(got.Text, "off by one in loop") {
		t.Errorf("Text = %q, want logic issue listed", got.Text)
	}
	if !p.last.JSON {
		t.Error("request should ask for JSON output")
	}
	if !strings.Contains(p.last.Messages[0].Content, "print(1)") {
		t.Error("prompt should include the code")
	}
}

func TestAssessor_Assess_Failures(t *testing.T) {
	tests := []struct {
		name      string
		providers ProviderSource
	}{
		{"nil source", nil},
		{"empty registry", registryWith(nil)},
		{"transport error", registryWith(&stubProvider{err: &llm.ErrProviderUnavailable{Provider: "stub", Err: errors.New("dial tcp")}})},
		{"rate limited", registryWith(&stubProvider{err: &llm.ErrRateLimit{Provider: "stub"}})},
		{"not json", registryWith(&stubProvider{content: "Looks fine to me!"})},
		{"schema violation", registryWith(&stubProvider{content: `{"score": "great"}`})},
		{"score out of range", registryWith(&stubProvider{content: `{"score": 140}`})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAssessor(tt.providers).Assess(context.Background(), Request{Code: "x", Language: "python"})
			if got.Score != nil {
				t.Errorf("Score = %v, want absent", *got.Score)
			}
			if !got.Failed {
				t.Error("Failed = false, want true")
			}
			if got.Text == "" {
				t.Error("Text should describe the failure")
			}
		})
	}
}

func TestPathAdvisor_Advise(t *testing.T) {
	p := &stubProvider{content: `{"optimized_order": ["python_basics"], "learning_tips": ["code every day"], "estimated_weeks": 6}`}
	a := NewPathAdvisor(registryWith(p))

	profile := &domain.UserProfile{SkillLevel: domain.SkillBeginner, LearningGoals: []string{"build a web app"}}
	topics := []domain.LearningTopic{{ID: "python_basics", Title: "Python Basics"}}

	advice, err := a.Advise(context.Background(), profile, topics)
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if len(advice.Tips) != 1 || advice.Tips[0] != "code every day" {
		t.Errorf("Tips = %v", advice.Tips)
	}
	if advice.Weeks != 6 {
		t.Errorf("Weeks = %d, want 6", advice.Weeks)
	}
	if !strings.Contains(p.last.Messages[0].Content, "build a web app") {
		t.Error("prompt should include learning goals")
	}
}

func TestPathAdvisor_Advise_Errors(t *testing.T) {
	profile := &domain.UserProfile{SkillLevel: domain.SkillBeginner}

	if _, err := NewPathAdvisor(nil).Advise(context.Background(), profile, nil); err == nil {
		t.Error("Advise() with no providers should fail")
	}

	bad := NewPathAdvisor(registryWith(&stubProvider{content: `{"estimated_weeks": 3}`}))
	if _, err := bad.Advise(context.Background(), profile, nil); err == nil {
		t.Error("Advise() should reject advice without tips")
	}
}

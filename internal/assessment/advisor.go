package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/codementor/internal/curriculum"
	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/llm"
)

var adviceSchema = &llm.Schema{
	Name: "path-advice",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"optimized_order": stringArray,
			"learning_tips":   stringArray,
			"estimated_weeks": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"learning_tips"},
	},
}

// PathAdvisor asks an LLM for study tips on a freshly selected path.
// It satisfies curriculum.Advisor.
type PathAdvisor struct {
	providers ProviderSource
	maxTokens int
}

var _ curriculum.Advisor = (*PathAdvisor)(nil)

// NewPathAdvisor creates an advisor backed by providers
func NewPathAdvisor(providers ProviderSource) *PathAdvisor {
	return &PathAdvisor{providers: providers, maxTokens: 512}
}

// Advise returns the model's suggestions or an error the caller may ignore
func (a *PathAdvisor) Advise(ctx context.Context, profile *domain.UserProfile, topics []domain.LearningTopic) (*curriculum.Advice, error) {
	if a.providers == nil {
		return nil, llm.ErrNoDefaultProvider
	}
	provider, err := a.providers.Default()
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, &llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{llm.UserMessage(advicePrompt(profile, topics))},
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("request path advice: %w", err)
	}

	var advice curriculum.Advice
	if err := llm.DecodeJSON(adviceSchema, resp.Content, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

func advicePrompt(profile *domain.UserProfile, topics []domain.LearningTopic) string {
	titles := make([]string, len(topics))
	for i, t := range topics {
		titles[i] = fmt.Sprintf("%s (%s)", t.Title, t.ID)
	}

	goals := "improve programming skills"
	if len(profile.LearningGoals) > 0 {
		goals = strings.Join(profile.LearningGoals, ", ")
	}
	langs := "none listed"
	if len(profile.ProgrammingLanguages) > 0 {
		langs = strings.Join(profile.ProgrammingLanguages, ", ")
	}

	var b strings.Builder
	b.WriteString("Learner profile:\n")
	fmt.Fprintf(&b, "- Current level: %s\n", profile.SkillLevel)
	fmt.Fprintf(&b, "- Known languages: %s\n", langs)
	fmt.Fprintf(&b, "- Learning goals: %s\n\n", goals)
	fmt.Fprintf(&b, "Suggested topics: %s\n\n", strings.Join(titles, "; "))
	b.WriteString("Suggest a study order and concrete learning tips. Return JSON with the keys ")
	b.WriteString("optimized_order (list of topic ids), learning_tips (list of strings) and estimated_weeks (integer).")
	return b.String()
}

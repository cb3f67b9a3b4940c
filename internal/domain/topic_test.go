package domain

import "testing"

func TestLearningTopic_Clone(t *testing.T) {
	orig := LearningTopic{ID: "a", Prerequisites: []string{"b"}, Tags: []string{"x"}}
	c := orig.Clone()
	c.Prerequisites[0] = "changed"
	c.Tags[0] = "changed"

	if orig.Prerequisites[0] != "b" || orig.Tags[0] != "x" {
		t.Error("Clone() should not share slices with the original")
	}
}

func TestLearningPath_TotalHours(t *testing.T) {
	p := &LearningPath{Topics: []LearningTopic{
		{ID: "a", EstimatedHours: 10},
		{ID: "b", EstimatedHours: 6},
		{ID: "c", EstimatedHours: 8},
	}}
	if got := p.TotalHours(); got != 24 {
		t.Errorf("TotalHours() = %d; want 24", got)
	}
}

func TestAnalysisResult_Issues(t *testing.T) {
	r := &AnalysisResult{
		SyntaxIssues:      []CodeIssue{{Type: IssueSyntax}},
		PerformanceIssues: []CodeIssue{{Type: IssuePerformance}},
		SecurityIssues:    []CodeIssue{{Type: IssueSecurity}, {Type: IssueSecurity}},
	}
	issues := r.Issues()
	if len(issues) != 4 {
		t.Fatalf("len(Issues()) = %d; want 4", len(issues))
	}
	if issues[0].Type != IssueSyntax || issues[1].Type != IssuePerformance {
		t.Errorf("Issues() order = %v; want syntax, performance, security", issues)
	}
}

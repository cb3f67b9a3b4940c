package llm

import (
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "test-review",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"notes": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"score"},
	},
}

type review struct {
	Score float64  `json:"score"`
	Notes []string `json:"notes"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantScore float64
		wantErr   bool
	}{
		{"plain", `{"score": 82, "notes": ["ok"]}`, 82, false},
		{"fenced", "```json\n{\"score\": 64}\n```", 64, false},
		{"prose around", `Here you go: {"score": 50} hope it helps`, 50, false},
		{"missing required", `{"notes": []}`, 0, true},
		{"out of range", `{"score": 120}`, 0, true},
		{"wrong type", `{"score": "high"}`, 0, true},
		{"not json", `no json here`, 0, true},
		{"broken json", `{"score": }`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r review
			err := DecodeJSON(testSchema, tt.content, &r)
			if tt.wantErr {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Errorf("DecodeJSON() error = %v, want ErrInvalidResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if r.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", r.Score, tt.wantScore)
			}
		})
	}
}

func TestDecodeJSON_NilSchema(t *testing.T) {
	var r review
	if err := DecodeJSON(nil, `{"score": 300}`, &r); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if r.Score != 300 {
		t.Errorf("Score = %v, want 300", r.Score)
	}
}

func TestExtractJSONObject(t *testing.T) {
	if got := ExtractJSONObject(`x {"a":{"b":1}} y`); got != `{"a":{"b":1}}` {
		t.Errorf("ExtractJSONObject() = %q", got)
	}
	if got := ExtractJSONObject(`} {`); got != "" {
		t.Errorf("ExtractJSONObject() = %q, want empty", got)
	}
}

package api

import (
	"encoding/json"
	"testing"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hello"`, "hello"},
		{"string array takes first", `["x","y"]`, "x"},
		{"fragment array with text", `[{"text":"frag"},{"text":"rest"}]`, "frag"},
		{"fragment array with content", `[{"content":"frag"}]`, "frag"},
		{"fragment array without text", `[{"foo":1}]`, `[{"foo":1}]`},
		{"empty array", `[]`, `[]`},
		{"object with text", `{"text":"t"}`, "t"},
		{"object with content", `{"content":"z"}`, "z"},
		{"object prefers text over content", `{"text":"t","content":"c"}`, "t"},
		{"empty object serialized", `{}`, `{}`},
		{"unknown object serialized", `{"foo": "bar"}`, `{"foo":"bar"}`},
		{"empty input", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswer(json.RawMessage(tt.raw))
			if got != tt.want {
				t.Errorf("NormalizeAnswer(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSourceRelevance(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		source Source
		want   int
	}{
		{"similarity wins over rerank", Source{SimilarityScore: f(0.5), RerankScore: f(0.9)}, 50},
		{"hybrid when no similarity", Source{HybridScore: f(0.72), RerankScore: f(0.1)}, 72},
		{"rerank alone", Source{RerankScore: f(0.89)}, 89},
		{"present zero similarity wins", Source{SimilarityScore: f(0), HybridScore: f(0.8)}, 0},
		{"no scores defaults to zero", Source{}, 0},
		{"rounds to nearest integer", Source{SimilarityScore: f(0.456)}, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.source.Relevance(); got != tt.want {
				t.Errorf("Relevance() = %d, want %d", got, tt.want)
			}
		})
	}
}

package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		provider, name, want string
	}{
		{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001"},
		{ProviderAnthropic, "claude-sonnet-4-5", "claude-sonnet-4-5"},
		{ProviderOpenAI, "gpt-mini", "gpt-4.1-mini"},
		{ProviderOpenAI, "gpt-4o-mini", "gpt-4o-mini"},
		{ProviderGemini, "gemini-flash", "gemini-2.5-flash"},
		{ProviderGemini, "gemini-pro", "gemini-2.5-pro"},
		{ProviderGemini, "claude-haiku", "claude-haiku"},
		{ProviderOpenRouter, "google/gemini-2.0-flash-001", "google/gemini-2.0-flash-001"},
	}
	for _, tt := range tests {
		if got := ResolveModel(tt.provider, tt.name); got != tt.want {
			t.Errorf("ResolveModel(%s, %q) = %q, want %q", tt.provider, tt.name, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(testCardSchema.Definition)

	if s.Type != genai.TypeObject {
		t.Fatalf("root type = %s", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "cards" {
		t.Errorf("required = %v", s.Required)
	}
	cards := s.Properties["cards"]
	if cards == nil || cards.Type != genai.TypeArray {
		t.Fatalf("cards = %+v", cards)
	}
	item := cards.Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("cards.items = %+v", item)
	}
	if item.Properties["front"].Type != genai.TypeString || item.Properties["back"].Type != genai.TypeString {
		t.Errorf("card properties = %+v", item.Properties)
	}
	if len(item.Required) != 2 {
		t.Errorf("card required = %v", item.Required)
	}
}

func TestGeminiSchema_EnumAndBounds(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":     "array",
		"minItems": 1,
		"maxItems": float64(30),
		"items": map[string]any{
			"type": "string",
			"enum": []string{"new", "learning", "mastered"},
		},
	})
	if s.MinItems == nil || *s.MinItems != 1 || s.MaxItems == nil || *s.MaxItems != 30 {
		t.Errorf("bounds = %v / %v", s.MinItems, s.MaxItems)
	}
	if len(s.Items.Enum) != 3 {
		t.Errorf("enum = %v", s.Items.Enum)
	}
	if got := geminiSchema(map[string]any{"type": "tuple"}).Type; got != genai.TypeString {
		t.Errorf("unknown type mapped to %s, want STRING", got)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		err    error
		target any
	}{
		{genai.APIError{Code: 429}, new(*ErrRateLimit)},
		{&genai.APIError{Code: 503}, new(*ErrProviderUnavailable)},
		{genai.APIError{Code: 400}, new(*ErrRejected)},
		{errors.New("dial tcp: connection refused"), new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		if got := classifyGeminiError(tt.err); !errors.As(got, tt.target) {
			t.Errorf("classifyGeminiError(%v) = %T, want %T", tt.err, got, tt.target)
		}
	}
}

func TestGeminiContents(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "What is ATP?"},
		{Role: RoleAssistant, Content: "Energy currency."},
		{Role: RoleUser, Content: "And ADP?"},
	})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantRoles := []string{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	for i, c := range got {
		if c.Role != wantRoles[i] {
			t.Errorf("contents[%d].Role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text == "" {
			t.Errorf("contents[%d] parts = %+v, want one text part", i, c.Parts)
		}
	}
	if got[1].Parts[0].Text != "Energy currency." {
		t.Errorf("assistant text = %q", got[1].Parts[0].Text)
	}
}

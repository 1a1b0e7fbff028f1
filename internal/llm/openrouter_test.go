package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
	}{
		{name: "vendor model", cfg: OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-001"}},
		{name: "alias is not resolved", cfg: OpenRouterConfig{APIKey: "sk-or-test", Model: "claude-haiku"}},
		{name: "no key", cfg: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ModelID() != tt.cfg.Model {
				t.Errorf("ModelID = %q, want %q", p.ModelID(), tt.cfg.Model)
			}
		})
	}
}

func TestOpenRouterProvider_SendsVendorModel(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"hint":"Think of the cell's energy."}`, "stop"))
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hint"}}}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if model != "anthropic/claude-3-haiku" {
		t.Errorf("sent model %q", model)
	}
}

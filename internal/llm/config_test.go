package llm

import (
	"testing"
	"time"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		env       map[string]string
		wantProv  string
		wantKey   string
		wantModel string
	}{
		{
			name:      "discovers first key in priority order",
			env:       map[string]string{"OPENAI_API_KEY": "sk-oai", "ANTHROPIC_API_KEY": "sk-ant"},
			wantProv:  ProviderOpenAI,
			wantKey:   "sk-oai",
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "explicit provider takes its own key",
			cfg:       Config{Provider: ProviderAnthropic},
			env:       map[string]string{"GEMINI_API_KEY": "g", "ANTHROPIC_API_KEY": "sk-ant"},
			wantProv:  ProviderAnthropic,
			wantKey:   "sk-ant",
			wantModel: "claude-haiku",
		},
		{
			name:      "explicit key and model win",
			cfg:       Config{Provider: ProviderGemini, APIKey: "mine", Model: "gemini-2.5-pro"},
			env:       map[string]string{"GEMINI_API_KEY": "env"},
			wantProv:  ProviderGemini,
			wantKey:   "mine",
			wantModel: "gemini-2.5-pro",
		},
		{
			name: "nothing configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Resolve(envOf(tt.env))
			if got.Provider != tt.wantProv || got.APIKey != tt.wantKey || got.Model != tt.wantModel {
				t.Errorf("Resolve() = %s/%s/%s, want %s/%s/%s",
					got.Provider, got.APIKey, got.Model, tt.wantProv, tt.wantKey, tt.wantModel)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, APIKey: "sk-test"}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"no provider", Config{}, true},
		{"unknown provider", Config{Provider: "unknown"}, true},
		{"negative retries", Config{Provider: ProviderMock, MaxRetries: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Retry(t *testing.T) {
	if got := (Config{}).retry().MaxAttempts; got != 3 {
		t.Errorf("default MaxAttempts = %d, want 3", got)
	}
	if got := (Config{MaxRetries: 5}).retry().MaxAttempts; got != 5 {
		t.Errorf("MaxAttempts = %d, want 5", got)
	}
	if got := DefaultConfig().Timeout; got != 90*time.Second {
		t.Errorf("default Timeout = %v, want 90s", got)
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		known bool
	}{
		{"claude-haiku", true},
		{"gpt-4o-mini", true},
		{"gemini-flash", true},
		{"google/gemini-2.0-flash-001", true},
		{"made-up-model", false},
	}
	for _, tt := range tests {
		if got := LookupCost(tt.model) != nil; got != tt.known {
			t.Errorf("LookupCost(%q) known = %v, want %v", tt.model, got, tt.known)
		}
	}

	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	if got := c.Cost(1_000_000, 200_000); got != 2 {
		t.Errorf("Cost = %v, want 2", got)
	}
}

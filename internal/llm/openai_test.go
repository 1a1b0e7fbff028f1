package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// openAIStub serves a fixed chat completion reply and captures the request.
func openAIStub(t *testing.T, status int, body any, got *map[string]any) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1760000000,
		"model":   "gpt-4.1-mini-2025-04-14",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 200, "completion_tokens": 48, "total_tokens": 248},
	}
}

func TestOpenAIProvider_Cards(t *testing.T) {
	var sent map[string]any
	p := openAIStub(t, http.StatusOK, chatCompletion(testCards, "stop"), &sent)
	if p.ModelID() != "gpt-4.1-mini" {
		t.Errorf("ModelID = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), Request{
		System:    "You turn notes into flashcards.",
		Messages:  []Message{{Role: RoleUser, Content: "Mitochondria produce ATP."}},
		Schema:    testCardSchema,
		MaxTokens: 1024,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != testCards {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 248 || resp.Model != "gpt-4.1-mini-2025-04-14" || resp.StopReason != StopEnd {
		t.Errorf("resp = %+v", resp)
	}

	msgs, _ := sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	if role := msgs[0].(map[string]any)["role"]; role != "system" {
		t.Errorf("first message role = %v", role)
	}
	format, _ := sent["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", format)
	}
}

func TestOpenAIProvider_TruncatedCards(t *testing.T) {
	p := openAIStub(t, http.StatusOK, chatCompletion(`{"cards":[`, "length"), nil)
	_, err := p.Generate(context.Background(), Request{Schema: testCardSchema, MaxTokens: 8})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("got %T (%v), want ErrMaxTokensExceeded", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	body := chatCompletion("", "stop")
	body["choices"] = []any{}
	p := openAIStub(t, http.StatusOK, body, nil)
	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("got %T (%v), want ErrInvalidResponse", err, err)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	apiError := func(msg string) map[string]any {
		return map[string]any{"error": map[string]any{"message": msg, "type": "error"}}
	}
	tests := []struct {
		status int
		target any
	}{
		{http.StatusTooManyRequests, new(*ErrRateLimit)},
		{http.StatusBadGateway, new(*ErrProviderUnavailable)},
		{http.StatusNotFound, new(*ErrRejected)},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := openAIStub(t, tt.status, apiError("nope"), nil)
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "notes"}}})
			if err == nil || !errors.As(err, tt.target) {
				t.Fatalf("got %T (%v), want %T", err, err, tt.target)
			}
		})
	}
}

package cardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/store"
)

// Generator produces flashcards and per-card study aids.
type Generator interface {
	Generate(ctx context.Context, input Input) ([]domain.CardDraft, error)
	Hint(ctx context.Context, card *domain.Flashcard) (string, error)
	Details(ctx context.Context, card *domain.Flashcard) (string, error)
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	cards    store.FlashcardRepo
	config   Config
}

// New creates an LLMGenerator. cards caches hints and details; it may be
// nil, in which case nothing is cached.
func New(provider llm.Provider, cards store.FlashcardRepo, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, cards: cards, config: cfg}
}

// cardOutput is one raw card before cleaning.
type cardOutput struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
}

type cardsOutput struct {
	Cards []cardOutput `json:"cards"`
}

// Generate asks the model for a card set built from input.Content.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]domain.CardDraft, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrEmptyInput
	}
	if n := utf8.RuneCountInString(input.Content); n > MaxInputChars {
		return nil, fmt.Errorf("%w: %d characters (max %d)", ErrInputTooLarge, n, MaxInputChars)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeCardGeneration)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      CardsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw cardsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	drafts := clean(raw.Cards, g.config.MaxCards)
	if len(drafts) == 0 {
		return nil, ErrNoCards
	}
	return drafts, nil
}

// Hint returns the card's hint, generating and caching it on first use.
func (g *LLMGenerator) Hint(ctx context.Context, card *domain.Flashcard) (string, error) {
	if card.Hint != "" {
		return card.Hint, nil
	}

	var out struct {
		Hint string `json:"hint"`
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)
	if err := g.ask(ctx, hintSystemPrompt, HintSchema, g.config.HintMaxTokens, card, &out); err != nil {
		return "", err
	}

	hint := strings.TrimSpace(out.Hint)
	if hint == "" {
		return "", fmt.Errorf("empty hint for card %s", card.ID)
	}
	if err := g.cache(ctx, card.ID, store.FlashcardPatch{Hint: &hint}); err != nil {
		return "", err
	}
	card.Hint = hint
	return hint, nil
}

// Details returns the card's Markdown explanation, generating and caching
// it on first use.
func (g *LLMGenerator) Details(ctx context.Context, card *domain.Flashcard) (string, error) {
	if card.Details != "" {
		return card.Details, nil
	}

	var out struct {
		Details string `json:"details"`
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeDetails)
	if err := g.ask(ctx, detailsSystemPrompt, DetailsSchema, g.config.DetailsMaxTokens, card, &out); err != nil {
		return "", err
	}

	details := strings.TrimSpace(out.Details)
	if details == "" {
		return "", fmt.Errorf("empty details for card %s", card.ID)
	}
	if err := g.cache(ctx, card.ID, store.FlashcardPatch{Details: &details}); err != nil {
		return "", err
	}
	card.Details = details
	return details, nil
}

func (g *LLMGenerator) ask(ctx context.Context, system string, schema *llm.Schema, maxTokens int, card *domain.Flashcard, out any) error {
	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCardMessage(card.Front, card.Back)},
		},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("LLM generation failed: %w", err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return nil
}

func (g *LLMGenerator) cache(ctx context.Context, cardID string, patch store.FlashcardPatch) error {
	if g.cards == nil {
		return nil
	}
	if err := g.cards.Update(ctx, cardID, patch); err != nil {
		return fmt.Errorf("cache card %s: %w", cardID, err)
	}
	return nil
}

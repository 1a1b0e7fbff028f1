package cardgen

import "github.com/abhisek/flashdeck/internal/llm"

// CardsSchema defines the JSON schema for card set responses. Items are
// kept loose so one malformed card does not reject the whole set; clean
// drops those entries instead.
var CardsSchema = &llm.Schema{
	Name:        "flashcard-set",
	Description: "A set of study flashcards extracted from the source content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":        "array",
				"description": "The generated flashcards",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "Text on the front of the card",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "Text on the back of the card",
						},
					},
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

// HintSchema wraps a single hint.
var HintSchema = &llm.Schema{
	Name:        "flashcard-hint",
	Description: "A short hint that helps recall the back of a flashcard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One to three sentences; must not state the answer",
			},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

// DetailsSchema wraps a Markdown explanation.
var DetailsSchema = &llm.Schema{
	Name:        "flashcard-details",
	Description: "A detailed Markdown explanation of a flashcard topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"details": map[string]any{
				"type":        "string",
				"description": "300-500 words of Markdown",
			},
		},
		"required":             []any{"details"},
		"additionalProperties": false,
	},
}

package cardgen

// MaxInputChars bounds the source content sent to the model.
const MaxInputChars = 500000

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for a card set response.
	MaxTokens int

	// HintMaxTokens and DetailsMaxTokens bound the per-card requests.
	HintMaxTokens    int
	DetailsMaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxCards caps the number of cards kept from one response.
	// Zero keeps everything.
	MaxCards int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        8192,
		HintMaxTokens:    256,
		DetailsMaxTokens: 2048,
		Temperature:      0.4,
		MaxCards:         40,
	}
}

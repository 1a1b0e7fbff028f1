package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/cardgen"
	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

var hintCmd = &cobra.Command{
	Use:   "hint <card-id>",
	Short: "Show a hint for a card, generating one if needed",
	Args:  cobra.ExactArgs(1),
	RunE: cardCommand(
		func(c *domain.Flashcard) string { return c.Hint },
		func(ctx context.Context, g *cardgen.LLMGenerator, c *domain.Flashcard) (string, error) {
			return g.Hint(ctx, c)
		},
	),
}

var detailsCmd = &cobra.Command{
	Use:   "details <card-id>",
	Short: "Show a longer explanation of a card, generating one if needed",
	Args:  cobra.ExactArgs(1),
	RunE: cardCommand(
		func(c *domain.Flashcard) string { return c.Details },
		func(ctx context.Context, g *cardgen.LLMGenerator, c *domain.Flashcard) (string, error) {
			return g.Details(ctx, c)
		},
	),
}

// cardCommand prints cached card text, or generates it with the configured
// provider when the card has none yet.
func cardCommand(
	cached func(*domain.Flashcard) string,
	generate func(context.Context, *cardgen.LLMGenerator, *domain.Flashcard) (string, error),
) func(*cobra.Command, []string) error {
	return withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		card, err := s.store.FlashcardRepo().Get(ctx, args[0])
		if err != nil {
			return err
		}

		text := cached(card)
		if text == "" {
			gen, err := s.generator(ctx)
			if err != nil {
				return err
			}
			if text, err = generate(ctx, gen, card); err != nil {
				return err
			}
		}

		fmt.Println(theme.Title.Render(card.Front))
		fmt.Println()
		fmt.Println(text)
		return nil
	})
}

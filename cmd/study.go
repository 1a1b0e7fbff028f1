package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/session"
	"github.com/abhisek/flashdeck/internal/tui"
)

var studyCmd = &cobra.Command{
	Use:   "study [set-id...]",
	Short: "Review cards from one or more card sets",
	Long: "Review cards from the given card sets, or from every set when none\n" +
		"is given. Due cards come first.",
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		dueOnly, _ := cmd.Flags().GetBool("due")
		shuffle, _ := cmd.Flags().GetBool("shuffle")
		plain, _ := cmd.Flags().GetBool("plain")

		ids := args
		if len(ids) == 0 {
			sets, err := s.store.CardSetRepo().List(ctx)
			if err != nil {
				return err
			}
			for _, cs := range sets {
				ids = append(ids, cs.ID)
			}
		}
		plan := session.PlanOptions{DueOnly: dueOnly, Shuffle: shuffle, Limit: cfg.Study.Limit}

		var hints tui.HintSource
		if gen, err := s.generator(ctx); err == nil {
			hints = gen
		} else {
			logger.Debug("hints unavailable", "error", err)
		}

		if plain {
			return studyPlain(ctx, s.study, ids, plan, hints, os.Stdin, os.Stdout)
		}
		return tui.Run(tui.NewStudyScreen(tui.StudyOptions{
			Service:    s.study,
			CardSetIDs: ids,
			Plan:       plan,
			Hints:      hints,
		}))
	}),
}

// studyPlain runs a session as a line-oriented prompt, for terminals
// without full-screen support.
func studyPlain(ctx context.Context, svc *session.Service, ids []string, plan session.PlanOptions, hints tui.HintSource, in io.Reader, out io.Writer) error {
	t, err := svc.Begin(ctx, ids, plan)
	if err != nil {
		return err
	}
	if len(t.Deck) == 0 {
		svc.Abandon(t)
		fmt.Fprintln(out, "Nothing to study right now.")
		return nil
	}

	sc := bufio.NewScanner(in)
	ask := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			return "", false
		}
		return strings.ToLower(strings.TrimSpace(sc.Text())), true
	}

	for i := range t.Deck {
		card := &t.Deck[i]
		shown := time.Now()
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(t.Deck), card.Front)

		outcome, ok := promptCard(ctx, ask, hints, card, out)
		if !ok {
			break
		}
		p, err := svc.Answer(ctx, t, card.ID, outcome, time.Since(shown).Milliseconds())
		if err != nil {
			return err
		}
		if p != nil && p.NextReviewAt != nil {
			fmt.Fprintf(out, "Next review %s\n", p.NextReviewAt.Local().Format("Jan 2"))
		}
	}
	return stopPlain(ctx, svc, t, out)
}

// promptCard asks until the card is graded or skipped. It returns false
// when the learner quits or input ends.
func promptCard(ctx context.Context, ask func(string) (string, bool), hints tui.HintSource, card *domain.Flashcard, out io.Writer) (session.Outcome, bool) {
	flipped := false
	for {
		if !flipped {
			in, ok := ask("(enter) flip  (h) hint  (s) skip  (q) quit > ")
			switch {
			case !ok || in == "q":
				return "", false
			case in == "":
				flipped = true
				fmt.Fprintln(out, card.Back)
			case in == "h":
				fmt.Fprintln(out, "Hint:", plainHint(ctx, hints, card))
			case in == "s":
				return session.OutcomeSkipped, true
			}
			continue
		}

		in, ok := ask("(y) knew it  (n) missed it  (s) skip  (q) quit > ")
		switch {
		case !ok || in == "q":
			return "", false
		case in == "y" || in == "1":
			return session.OutcomeCorrect, true
		case in == "n" || in == "2":
			return session.OutcomeIncorrect, true
		case in == "s":
			return session.OutcomeSkipped, true
		}
	}
}

// stopPlain stores the run and prints its summary. A run with no answers
// is abandoned.
func stopPlain(ctx context.Context, svc *session.Service, t *session.Tracker, out io.Writer) error {
	if len(t.Answers()) == 0 {
		svc.Abandon(t)
		fmt.Fprintln(out, "\nSession abandoned.")
		return nil
	}
	if _, err := svc.Complete(ctx, t); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.FormatResult(t.Finish(time.Now()), len(t.CardSetIDs)))
	return nil
}

func plainHint(ctx context.Context, hints tui.HintSource, card *domain.Flashcard) string {
	if card.Hint != "" {
		return card.Hint
	}
	if hints == nil {
		return "no hint available"
	}
	h, err := hints.Hint(ctx, card)
	if err != nil {
		return "unavailable: " + err.Error()
	}
	card.Hint = h
	return h
}

func init() {
	f := studyCmd.Flags()
	f.Bool("due", false, "Only cards that are due for review")
	f.Bool("shuffle", false, "Shuffle the deck")
	f.Int("limit", 0, "Maximum cards in the session (overrides study.limit)")
	f.Bool("plain", false, "Line-oriented prompts instead of the full-screen interface")
}

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/stats"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats [set-id]",
	Short: "Show learning statistics for one or every card set",
	Args:  cobra.MaximumNArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		if len(args) == 1 {
			st, err := s.stats.ComputeStats(ctx, args[0])
			if err != nil {
				return err
			}
			set, err := s.store.CardSetRepo().Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(renderStats(set.Name, *st))
			return nil
		}

		all, err := s.stats.ComputeAll(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No card sets yet.")
			return nil
		}
		sets, err := s.store.CardSetRepo().List(ctx)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(sets))
		for _, cs := range sets {
			names[cs.ID] = cs.Name
		}
		for i, st := range all {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(renderStats(names[st.CardSetID], st))
		}
		return nil
	}),
}

func renderStats(name string, st stats.LearningStats) string {
	line := func(label, value string) string {
		return theme.Label.Render(label) + theme.Value.Render(value) + "\n"
	}
	goal := theme.Incorrect.Render(fmt.Sprintf("%d/%d today", st.CardsReviewedToday, stats.DailyGoal))
	if st.DailyGoalMet {
		goal = theme.Correct.Render(fmt.Sprintf("%d/%d today", st.CardsReviewedToday, stats.DailyGoal))
	}
	last := "never"
	if st.LastStudyDate != nil {
		last = st.LastStudyDate.Local().Format("2006-01-02 15:04")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(name) + "  " + theme.Hint.Render(st.CardSetID) + "\n")
	b.WriteString(line("Cards", fmt.Sprintf("%d (%s %d, %s %d, %s %d)",
		st.TotalCards,
		theme.Status(domain.StatusNew), st.NewCards,
		theme.Status(domain.StatusLearning), st.LearningCards,
		theme.Status(domain.StatusMastered), st.MasteredCount)))
	b.WriteString(line("Mastered", fmt.Sprintf("%.0f%%", st.MasteredCards)))
	b.WriteString(line("Due now", fmt.Sprint(st.DueCards)))
	b.WriteString(line("Accuracy", fmt.Sprintf("%.0f%% of %d reviews", st.Accuracy, st.TotalReviews)))
	b.WriteString(line("Avg time per card", (time.Duration(st.AverageTimePerCard) * time.Millisecond).Round(100*time.Millisecond).String()))
	b.WriteString(line("Sessions", fmt.Sprint(st.StudySessionsCompleted)))
	b.WriteString(line("Streak", fmt.Sprintf("%d days", st.StudyStreak)))
	b.WriteString(line("Daily goal", goal))
	b.WriteString(line("Last studied", last))
	return strings.TrimRight(b.String(), "\n")
}

var historyCmd = &cobra.Command{
	Use:   "history <set-id>",
	Short: "Show completed study sessions of a card set",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		n, _ := cmd.Flags().GetInt("count")
		rows, err := s.stats.History(cmd.Context(), args[0], n)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No completed sessions yet.")
			return nil
		}

		fmt.Printf("%-16s  %8s  %7s  %6s  %7s  %8s  %s\n",
			"Completed", "Reviewed", "Correct", "Missed", "Skipped", "Accuracy", "Time")
		fmt.Println(strings.Repeat("─", 76))
		for _, r := range rows {
			acc := "-"
			if graded := r.CorrectAnswers + r.IncorrectAnswers; graded > 0 {
				acc = fmt.Sprintf("%.0f%%", float64(r.CorrectAnswers)*100/float64(graded))
			}
			fmt.Printf("%-16s  %8d  %7d  %6d  %7d  %8s  %s\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.CardsReviewed, r.CorrectAnswers, r.IncorrectAnswers, r.SkippedCards,
				acc,
				(time.Duration(r.TotalTimeSpent) * time.Millisecond).Round(time.Second),
			)
		}
		return nil
	}),
}

var dueCmd = &cobra.Command{
	Use:   "due <set-id>",
	Short: "List the cards of a set that are due for review",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		cards, err := s.lib.Due(cmd.Context(), args[0], time.Now())
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Println("Nothing due. Come back later.")
			return nil
		}
		for _, c := range cards {
			when := "new"
			if c.Progress.NextReviewAt != nil {
				when = c.Progress.NextReviewAt.Local().Format("Jan 2")
			}
			fmt.Printf("%-8s  %-10s  %s\n", when, theme.Status(c.Progress.Status), c.Front)
		}
		return nil
	}),
}

func init() {
	historyCmd.Flags().IntP("count", "n", 20, "Number of sessions to show (0 for all)")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List, show and delete card sets",
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List card sets, most recently updated first",
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		rawTheme, _ := cmd.Flags().GetString("theme")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		query, _ := cmd.Flags().GetString("search")

		th, err := parseTheme(rawTheme)
		if err != nil {
			return err
		}
		sets, err := s.lib.List(cmd.Context(), library.Filter{Theme: th, Tags: tags, Query: query})
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			fmt.Println("No card sets found.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %-12s  %-10s  %s\n", "ID", "Name", "Theme", "Updated", "Tags")
		fmt.Println(strings.Repeat("─", 100))
		for _, cs := range sets {
			fmt.Printf("%-36s  %-28s  %-12s  %-10s  %s\n",
				cs.ID,
				truncate(cs.Name, 28),
				cs.Theme,
				cs.UpdatedAt.Local().Format("2006-01-02"),
				strings.Join(cs.Tags, ","),
			)
		}
		return nil
	}),
}

var setsShowCmd = &cobra.Command{
	Use:   "show <set-id>",
	Short: "Show a card set and its cards",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		set, err := s.lib.Get(ctx, args[0])
		if err != nil {
			return err
		}
		progress, err := s.store.ProgressRepo().ListByCardSet(ctx, set.ID)
		if err != nil {
			return err
		}
		status := make(map[string]string, len(progress))
		for _, p := range progress {
			status[p.CardID] = theme.Status(p.Status)
		}

		fmt.Println(theme.Title.Render(set.Name))
		if set.Description != "" {
			fmt.Println(theme.Subtitle.Render(set.Description))
		}
		fmt.Println(theme.Hint.Render(fmt.Sprintf("%s · %s · %d cards", set.Theme, set.SourceType, len(set.Cards))))
		fmt.Println()
		for i, c := range set.Cards {
			fmt.Printf("%3d. %s  %s\n", i+1, theme.Value.Render(c.Front), status[c.ID])
			fmt.Printf("     %s\n", c.Back)
			fmt.Printf("     %s\n", theme.Hint.Render(c.ID))
		}
		return nil
	}),
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete <set-id>",
	Short: "Delete a card set with its cards, progress and history",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		if err := s.lib.DeleteSet(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	}),
}

func init() {
	f := setsListCmd.Flags()
	f.String("theme", "", "Only sets with this theme")
	f.StringSlice("tags", nil, "Only sets carrying all of these tags")
	f.String("search", "", "Match name or description")

	setsCmd.AddCommand(setsListCmd)
	setsCmd.AddCommand(setsShowCmd)
	setsCmd.AddCommand(setsDeleteCmd)
}

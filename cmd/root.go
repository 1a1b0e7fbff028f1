package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/config"
	"github.com/abhisek/flashdeck/internal/logging"
	"github.com/abhisek/flashdeck/internal/store"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "Spaced-repetition flashcards in the terminal",
	Long: "flashdeck turns notes, web pages and spreadsheets into flashcard sets\n" +
		"and schedules their review with spaced repetition.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(cmd.Flags(), config.Options{File: file})
		if err != nil {
			return err
		}
		l, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		slog.SetDefault(l)
		return nil
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the YAML config file (default $XDG_CONFIG_HOME/flashdeck/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides FLASHDECK_DB)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the configured database path (--db or
// FLASHDECK_DB), then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/cardgen"
	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/session"
	"github.com/abhisek/flashdeck/internal/stats"
	"github.com/abhisek/flashdeck/internal/store"
)

// services bundles the store and the services built on it.
type services struct {
	store *store.Store
	lib   *library.Library
	study *session.Service
	stats *stats.Aggregator
}

// openServices opens the database and wires the services. Callers must
// Close the result.
func openServices() (*services, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", "path", dbPath)

	return &services{
		store: st,
		lib:   library.New(st, logger),
		study: session.NewService(session.Deps{
			Flashcards: st.FlashcardRepo(),
			Progress:   st.ProgressRepo(),
			Sessions:   st.SessionRepo(),
			Logger:     logger,
		}),
		stats: stats.NewAggregator(st, nil),
	}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}

// generator builds the card generator from the LLM settings. Requests are
// recorded in the event log.
func (s *services) generator(ctx context.Context) (*cardgen.LLMGenerator, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	p, err := llm.NewProvider(ctx, cfg.LLM, s.store.EventRepo(), logger)
	if err != nil {
		return nil, err
	}
	return cardgen.New(p, s.store.FlashcardRepo(), cardgen.DefaultConfig()), nil
}

// withServices runs fn with opened services and closes them afterwards.
func withServices(fn func(cmd *cobra.Command, args []string, s *services) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openServices()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

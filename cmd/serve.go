package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/api"
	"github.com/abhisek/flashdeck/internal/reminder"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study API and run the daily reminder",
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.New(api.Deps{
			Library:    s.lib,
			Study:      s.study,
			Stats:      s.stats,
			Logger:     logger,
			StudyLimit: cfg.Study.Limit,
			SessionTTL: cfg.Server.SessionTTL,
		})
		httpSrv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if cfg.Reminder.At != "" {
			r := reminder.New(s.stats, time.Local, logger)
			if err := r.Start(cfg.Reminder.At); err != nil {
				return err
			}
			defer r.Stop()
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("api listening", "addr", cfg.Server.Addr)
			errc <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", cfg.Server.Addr, err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("remind-at", "", "Daily reminder time HH:MM (overrides reminder.at)")
}

// Package reminder runs the daily study reminder.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/flashdeck/internal/stats"
)

// Source provides the per-set statistics a reminder reports on.
type Source interface {
	ComputeAll(ctx context.Context) ([]stats.LearningStats, error)
}

// Notice is the reminder line for one card set.
type Notice struct {
	CardSetID string
	DueCards  int
	Streak    int
	GoalMet   bool
}

// Reminder logs due cards and streaks once a day.
type Reminder struct {
	scheduler *gocron.Scheduler
	source    Source
	logger    *slog.Logger
	timeout   time.Duration
}

// New creates a Reminder running in loc. A nil logger discards output.
func New(source Source, loc *time.Location, logger *slog.Logger) *Reminder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if loc == nil {
		loc = time.Local
	}
	return &Reminder{
		scheduler: gocron.NewScheduler(loc),
		source:    source,
		logger:    logger,
		timeout:   30 * time.Second,
	}
}

// Start schedules the daily check at HH:MM and starts the scheduler in the
// background.
func (r *Reminder) Start(at string) error {
	if _, err := time.Parse("15:04", at); err != nil {
		return fmt.Errorf("reminder time %q: want HH:MM", at)
	}
	_, err := r.scheduler.Every(1).Day().At(at).SingletonMode().Do(r.run)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.scheduler.StartAsync()
	r.logger.Info("daily reminder scheduled", "at", at)
	return nil
}

// Stop terminates the scheduler.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.Check(ctx); err != nil {
		r.logger.Error("reminder check failed", "error", err)
	}
}

// Check builds and logs one notice per set with due cards.
func (r *Reminder) Check(ctx context.Context) ([]Notice, error) {
	all, err := r.source.ComputeAll(ctx)
	if err != nil {
		return nil, err
	}

	var notices []Notice
	for _, st := range all {
		if st.DueCards == 0 {
			continue
		}
		n := Notice{
			CardSetID: st.CardSetID,
			DueCards:  st.DueCards,
			Streak:    st.StudyStreak,
			GoalMet:   st.DailyGoalMet,
		}
		notices = append(notices, n)
		r.logger.Info("cards due for review",
			"card_set_id", n.CardSetID,
			"due", n.DueCards,
			"streak", n.Streak,
			"daily_goal_met", n.GoalMet,
		)
	}
	if len(notices) == 0 {
		r.logger.Info("nothing due for review")
	}
	return notices, nil
}

package reminder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/flashdeck/internal/stats"
)

type fakeSource struct {
	stats []stats.LearningStats
	err   error
}

func (f fakeSource) ComputeAll(context.Context) ([]stats.LearningStats, error) {
	return f.stats, f.err
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := New(fakeSource{stats: []stats.LearningStats{
		{CardSetID: "rivers", DueCards: 4, StudyStreak: 3},
		{CardSetID: "lakes", DueCards: 0, StudyStreak: 1},
		{CardSetID: "capitals", DueCards: 1, DailyGoalMet: true},
	}}, time.UTC, logger)

	notices, err := r.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(notices) != 2 {
		t.Fatalf("got %d notices, want 2: %+v", len(notices), notices)
	}
	if notices[0] != (Notice{CardSetID: "rivers", DueCards: 4, Streak: 3}) {
		t.Errorf("notice[0] = %+v", notices[0])
	}
	if !notices[1].GoalMet {
		t.Errorf("notice[1] = %+v", notices[1])
	}
	if !strings.Contains(buf.String(), "card_set_id=rivers due=4 streak=3") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestCheck_NothingDue(t *testing.T) {
	r := New(fakeSource{}, nil, nil)
	notices, err := r.Check(context.Background())
	if err != nil || len(notices) != 0 {
		t.Errorf("Check = %v, %v", notices, err)
	}
}

func TestCheck_Error(t *testing.T) {
	boom := errors.New("boom")
	r := New(fakeSource{err: boom}, time.UTC, nil)
	if _, err := r.Check(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestStart_RejectsBadTime(t *testing.T) {
	r := New(fakeSource{}, time.UTC, nil)
	for _, at := range []string{"9am", "25:00", ""} {
		if err := r.Start(at); err == nil {
			t.Errorf("Start(%q) should fail", at)
		}
	}
}

func TestStart_SchedulesDailyJob(t *testing.T) {
	r := New(fakeSource{}, time.UTC, nil)
	if err := r.Start("07:30"); err != nil {
		t.Fatal(err)
	}
	defer r.Stop()
	if n := len(r.scheduler.Jobs()); n != 1 {
		t.Errorf("jobs = %d, want 1", n)
	}
}

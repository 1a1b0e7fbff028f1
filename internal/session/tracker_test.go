package session

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
)

var t0 = time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

func deckOf(setID string, ids ...string) []domain.Flashcard {
	cards := make([]domain.Flashcard, len(ids))
	for i, id := range ids {
		cards[i] = domain.Flashcard{ID: id, CardSetID: setID, Position: i, Front: id, Back: id}
	}
	return cards
}

func TestTracker_FinishFoldsLog(t *testing.T) {
	tr, err := Start([]string{"s1"}, deckOf("s1", "a", "b", "c", "d", "e"), t0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	answers := []struct {
		card    string
		outcome Outcome
		ms      int64
	}{
		{"a", OutcomeCorrect, 8000},
		{"b", OutcomeCorrect, 12000},
		{"c", OutcomeIncorrect, 15000},
		{"d", OutcomeSkipped, 5000},
		{"e", OutcomeCorrect, 10000},
	}
	for _, a := range answers {
		if err := tr.RecordAnswer(a.card, a.outcome, a.ms, t0); err != nil {
			t.Fatalf("RecordAnswer(%s): %v", a.card, err)
		}
	}

	got := tr.Finish(t0.Add(time.Minute))
	want := Result{CardsReviewed: 5, CorrectAnswers: 3, IncorrectAnswers: 1, SkippedCards: 1, TotalTimeSpent: 50000}
	if got != want {
		t.Errorf("Finish() = %+v, want %+v", got, want)
	}
	if tr.Phase() != PhaseCompleted {
		t.Errorf("Phase = %v, want completed", tr.Phase())
	}
}

func TestTracker_FinishIdempotent(t *testing.T) {
	tr, _ := Start([]string{"s1"}, deckOf("s1", "a"), t0)
	_ = tr.RecordAnswer("a", OutcomeCorrect, 1000, t0)

	first := tr.Finish(t0.Add(time.Minute))
	completedAt := *tr.CompletedAt
	second := tr.Finish(t0.Add(time.Hour))

	if first != second {
		t.Errorf("second Finish() = %+v, want %+v", second, first)
	}
	if !tr.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt moved to %v", tr.CompletedAt)
	}
	if err := tr.RecordAnswer("a", OutcomeCorrect, 1000, t0); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("answer after finish: err = %v, want ErrSessionCompleted", err)
	}
}

func TestTracker_RejectsBadAnswers(t *testing.T) {
	tr, _ := Start([]string{"s1"}, deckOf("s1", "a"), t0)

	tests := []struct {
		name    string
		card    string
		outcome Outcome
		ms      int64
		want    error
	}{
		{"invalid outcome", "a", Outcome("maybe"), 0, ErrInvalidOutcome},
		{"empty outcome", "a", Outcome(""), 0, ErrInvalidOutcome},
		{"negative time", "a", OutcomeCorrect, -1, ErrNegativeTime},
		{"unknown card", "zzz", OutcomeCorrect, 0, ErrUnknownCard},
	}
	for _, tt := range tests {
		err := tr.RecordAnswer(tt.card, tt.outcome, tt.ms, t0)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
	if n := len(tr.Answers()); n != 0 {
		t.Errorf("log has %d entries after rejected answers, want 0", n)
	}
}

func TestParseOutcome(t *testing.T) {
	for _, s := range []string{"correct", "incorrect", "skipped"} {
		if _, err := ParseOutcome(s); err != nil {
			t.Errorf("ParseOutcome(%q): %v", s, err)
		}
	}
	_, err := ParseOutcome("Correct")
	var ioe *InvalidOutcomeError
	if !errors.As(err, &ioe) || ioe.Outcome != "Correct" {
		t.Errorf("ParseOutcome(Correct) err = %v, want InvalidOutcomeError", err)
	}
}

func TestTracker_AnswersKeepOrder(t *testing.T) {
	tr, _ := Start([]string{"s1"}, deckOf("s1", "a", "b"), t0)
	_ = tr.RecordAnswer("b", OutcomeIncorrect, 10, t0)
	_ = tr.RecordAnswer("a", OutcomeCorrect, 20, t0.Add(time.Second))
	_ = tr.RecordAnswer("b", OutcomeCorrect, 30, t0.Add(2*time.Second))

	log := tr.Answers()
	order := []string{"b", "a", "b"}
	for i, id := range order {
		if log[i].CardID != id {
			t.Errorf("log[%d] = %s, want %s", i, log[i].CardID, id)
		}
	}
	if !tr.Answered("a") || tr.Answered("c") {
		t.Error("Answered() disagrees with log")
	}
}

func TestTracker_PartitionPerSet(t *testing.T) {
	deck := append(deckOf("s1", "a1", "a2"), deckOf("s2", "b1")...)
	deck = append(deck, deckOf("s3", "c1")...)
	tr, _ := Start([]string{"s1", "s2", "s3"}, deck, t0)

	_ = tr.RecordAnswer("a1", OutcomeCorrect, 1000, t0)
	_ = tr.RecordAnswer("b1", OutcomeIncorrect, 2000, t0)
	_ = tr.RecordAnswer("a2", OutcomeSkipped, 3000, t0)
	tr.Finish(t0)

	parts := tr.Partition()
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2 (set without answers omitted)", len(parts))
	}

	s1, s2 := parts[0], parts[1]
	if s1.CardSetID != "s1" || s2.CardSetID != "s2" {
		t.Fatalf("sets = %s,%s, want s1,s2", s1.CardSetID, s2.CardSetID)
	}
	if s1.CardsReviewed != 2 || s1.CorrectAnswers != 1 || s1.SkippedCards != 1 {
		t.Errorf("s1 = %+v", s1.Result)
	}
	if s2.CardsReviewed != 1 || s2.IncorrectAnswers != 1 {
		t.Errorf("s2 = %+v", s2.Result)
	}
	// Every row carries the whole run's time.
	for _, p := range parts {
		if p.TotalTimeSpent != 6000 {
			t.Errorf("%s TotalTimeSpent = %d, want 6000", p.CardSetID, p.TotalTimeSpent)
		}
	}
}

func TestTracker_Abandon(t *testing.T) {
	tr, _ := Start([]string{"s1"}, deckOf("s1", "a"), t0)
	_ = tr.RecordAnswer("a", OutcomeCorrect, 100, t0)
	tr.Abandon()

	if tr.Phase() != PhaseAbandoned {
		t.Errorf("Phase = %v, want abandoned", tr.Phase())
	}
	if parts := tr.Partition(); len(parts) != 0 {
		t.Errorf("Partition() after abandon = %v, want empty", parts)
	}
	if err := tr.RecordAnswer("a", OutcomeCorrect, 100, t0); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("answer after abandon: err = %v, want ErrSessionCompleted", err)
	}
}

func TestStart_RequiresCardSets(t *testing.T) {
	if _, err := Start(nil, nil, t0); !errors.Is(err, ErrNoCardSets) {
		t.Errorf("Start(nil) err = %v, want ErrNoCardSets", err)
	}
}

func TestResult_Accuracy(t *testing.T) {
	if got := (Result{}).Accuracy(); got != 0 {
		t.Errorf("empty Accuracy() = %v, want 0", got)
	}
	r := Result{CardsReviewed: 5, CorrectAnswers: 3, IncorrectAnswers: 1, SkippedCards: 1}
	if got := r.Accuracy(); got != 0.75 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}
}

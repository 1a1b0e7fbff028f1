package session

import "time"

// Result holds the folded counts of a finished run.
type Result struct {
	CardsReviewed    int   `json:"cardsReviewed"`
	CorrectAnswers   int   `json:"correctAnswers"`
	IncorrectAnswers int   `json:"incorrectAnswers"`
	SkippedCards     int   `json:"skippedCards"`
	TotalTimeSpent   int64 `json:"totalTimeSpent"`
}

// Accuracy returns correct answers as a fraction of graded answers (0 when
// nothing was graded).
func (r Result) Accuracy() float64 {
	graded := r.CorrectAnswers + r.IncorrectAnswers
	if graded == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(graded)
}

// Duration returns the total time spent as a time.Duration.
func (r Result) Duration() time.Duration {
	return time.Duration(r.TotalTimeSpent) * time.Millisecond
}

// SetResult is one card set's slice of a run.
type SetResult struct {
	CardSetID string `json:"cardSetId"`
	Result
}

func fold(log []Answer) Result {
	var r Result
	for _, a := range log {
		r.CardsReviewed++
		r.TotalTimeSpent += a.TimeSpentMs
		switch a.Outcome {
		case OutcomeCorrect:
			r.CorrectAnswers++
		case OutcomeIncorrect:
			r.IncorrectAnswers++
		case OutcomeSkipped:
			r.SkippedCards++
		}
	}
	return r
}

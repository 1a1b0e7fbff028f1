package stats

import (
	"sort"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/spacedrep"
)

// DailyGoal is the number of cards a learner should review per day.
const DailyGoal = 10

// LearningStats summarizes progress on one card set. Percentages are in
// the range [0, 100]; times are milliseconds.
type LearningStats struct {
	CardSetID string `json:"cardSetId"`

	MasteredCards          float64    `json:"masteredCards"`
	Accuracy               float64    `json:"accuracy"`
	TotalReviews           int        `json:"totalReviews"`
	CorrectReviews         int        `json:"correctReviews"`
	IncorrectReviews       int        `json:"incorrectReviews"`
	AverageTimePerCard     float64    `json:"averageTimePerCard"`
	StudySessionsCompleted int        `json:"studySessionsCompleted"`
	StudyStreak            int        `json:"studyStreak"`
	DailyGoalMet           bool       `json:"dailyGoalMet"`
	LastStudyDate          *time.Time `json:"lastStudyDate"`

	TotalCards         int `json:"totalCards"`
	NewCards           int `json:"newCards"`
	LearningCards      int `json:"learningCards"`
	MasteredCount      int `json:"masteredCount"`
	DueCards           int `json:"dueCards"`
	CardsReviewedToday int `json:"cardsReviewedToday"`
}

// Input is everything Compute needs about one card set.
type Input struct {
	CardSetID string
	Cards     []domain.Flashcard
	Progress  []domain.CardProgress
	Sessions  []domain.StudySession
}

// Compute derives LearningStats from a card set's records. It is pure:
// calendar days are taken in now's location.
func Compute(in Input, now time.Time) LearningStats {
	st := LearningStats{CardSetID: in.CardSetID, TotalCards: len(in.Cards)}

	for i := range in.Progress {
		p := &in.Progress[i]
		st.CorrectReviews += p.CorrectCount
		st.IncorrectReviews += p.IncorrectCount
		switch p.Status {
		case domain.StatusNew:
			st.NewCards++
		case domain.StatusLearning:
			st.LearningCards++
		case domain.StatusMastered:
			st.MasteredCount++
		}
	}
	st.DueCards = spacedrep.CountDue(in.Progress, now)
	st.TotalReviews = st.CorrectReviews + st.IncorrectReviews

	if st.TotalCards > 0 {
		st.MasteredCards = float64(st.MasteredCount) / float64(st.TotalCards) * 100
	}
	if st.TotalReviews > 0 {
		st.Accuracy = float64(st.CorrectReviews) / float64(st.TotalReviews) * 100
	}

	var (
		totalTime     int64
		totalReviewed int
		days          []time.Time
		seen          = make(map[time.Time]bool)
		today         = dayOf(now, now.Location())
	)
	for _, s := range in.Sessions {
		if s.CompletedAt == nil {
			continue
		}
		st.StudySessionsCompleted++
		totalTime += s.TotalTimeSpent
		totalReviewed += s.CardsReviewed

		if st.LastStudyDate == nil || s.CompletedAt.After(*st.LastStudyDate) {
			last := *s.CompletedAt
			st.LastStudyDate = &last
		}

		day := dayOf(*s.CompletedAt, now.Location())
		if day.Equal(today) {
			st.CardsReviewedToday += s.CardsReviewed
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if totalReviewed > 0 {
		st.AverageTimePerCard = float64(totalTime) / float64(totalReviewed)
	}
	st.StudyStreak = streak(days, today)
	st.DailyGoalMet = st.CardsReviewedToday >= DailyGoal
	return st
}

// streak counts consecutive study days ending today or yesterday. days
// must be distinct midnights.
func streak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}
	n := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		n++
	}
	return n
}

// dayOf returns local midnight of t's calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

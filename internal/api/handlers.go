package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/session"
)

// GET /api/sets?theme=&tag=&q=
func (s *Server) listSets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sets, err := s.lib.List(r.Context(), library.Filter{
		Theme: domain.Theme(q.Get("theme")),
		Tags:  q["tag"],
		Query: q.Get("q"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sets == nil {
		sets = []domain.CardSet{}
	}
	respondWithJSON(w, http.StatusOK, sets)
}

func (s *Server) getSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.lib.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, set)
}

func (s *Server) deleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.lib.DeleteSet(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.ComputeStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (s *Server) allStats(w http.ResponseWriter, r *http.Request) {
	all, err := s.stats.ComputeAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, all)
}

func (s *Server) dueCards(w http.ResponseWriter, r *http.Request) {
	due, err := s.lib.Due(r.Context(), mux.Vars(r)["id"], s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, due)
}

// GET /api/sets/{id}/history?limit=
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}
	rows, err := s.stats.History(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.StudySession{}
	}
	respondWithJSON(w, http.StatusOK, rows)
}

type beginRequest struct {
	CardSetIDs []string `json:"cardSetIds"`
	DueOnly    bool     `json:"dueOnly"`
	Shuffle    bool     `json:"shuffle"`
	Limit      int      `json:"limit"`
}

type beginResponse struct {
	ID    string             `json:"id"`
	Cards []domain.Flashcard `json:"cards"`
}

func (s *Server) beginSession(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Limit < 0 {
		s.fail(w, r, fmt.Errorf("%w: limit must not be negative", errBadRequest))
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.limit
	}

	t, err := s.study.Begin(r.Context(), req.CardSetIDs, session.PlanOptions{
		DueOnly: req.DueOnly,
		Shuffle: req.Shuffle,
		Limit:   limit,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.register(t)

	cards := t.Deck
	if cards == nil {
		cards = []domain.Flashcard{}
	}
	respondWithJSON(w, http.StatusCreated, beginResponse{ID: t.ID, Cards: cards})
}

type answerRequest struct {
	CardID      string `json:"cardId"`
	Outcome     string `json:"outcome"`
	TimeSpentMs int64  `json:"timeSpentMs"`
}

type answerResponse struct {
	CardID   string               `json:"cardId"`
	Outcome  session.Outcome      `json:"outcome"`
	Progress *domain.CardProgress `json:"progress"` // nil for skipped cards
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookup(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req answerRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	outcome, err := session.ParseOutcome(strings.TrimSpace(req.Outcome))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	p, err := s.study.Answer(r.Context(), entry.t, req.CardID, outcome, req.TimeSpentMs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, answerResponse{CardID: req.CardID, Outcome: outcome, Progress: p})
}

type finishResponse struct {
	ID     string                `json:"id"`
	Result session.Result        `json:"result"`
	Rows   []domain.StudySession `json:"rows"`
}

// finish is idempotent: the session stays registered so a retry returns
// the same rows.
func (s *Server) finish(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookup(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	rows, err := s.study.Complete(r.Context(), entry.t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result := entry.t.Finish(s.now())
	respondWithJSON(w, http.StatusOK, finishResponse{ID: entry.t.ID, Result: result, Rows: rows})
}

func (s *Server) abandon(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, err := s.lookup(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.t.Phase() == session.PhaseCompleted {
		s.fail(w, r, errors.Join(session.ErrSessionCompleted, fmt.Errorf("session %s already finished", id)))
		return
	}
	s.study.Abandon(entry.t)
	s.remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// Package api serves a local JSON API over the card library, study
// sessions and statistics.
package api

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/session"
	"github.com/abhisek/flashdeck/internal/stats"
)

// Deps holds the services the API is built on.
type Deps struct {
	Library *library.Library
	Study   *session.Service
	Stats   *stats.Aggregator
	Logger  *slog.Logger
	Clock   func() time.Time

	// StudyLimit caps the cards of a session when the request has no
	// limit. Zero means no cap.
	StudyLimit int

	// SessionTTL is how long an open session may sit idle before it is
	// abandoned. Zero means DefaultSessionTTL.
	SessionTTL time.Duration
}

// DefaultSessionTTL is the idle lifetime of an open study session.
const DefaultSessionTTL = 2 * time.Hour

// Server handles API requests. Open study sessions live in memory until
// they are abandoned, or until they sit idle longer than the session TTL.
type Server struct {
	lib    *library.Library
	study  *session.Service
	stats  *stats.Aggregator
	logger *slog.Logger
	now    func() time.Time
	limit  int
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*openSession
}

// openSession guards one tracker; answers to a session are applied one at
// a time.
type openSession struct {
	mu sync.Mutex
	t  *session.Tracker

	lastUsed time.Time // guarded by Server.mu
}

// New creates a Server.
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := d.Clock
	if now == nil {
		now = time.Now
	}
	ttl := d.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Server{
		lib:      d.Library,
		study:    d.Study,
		stats:    d.Stats,
		logger:   logger,
		now:      now,
		limit:    d.StudyLimit,
		ttl:      ttl,
		sessions: make(map[string]*openSession),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sets", s.listSets).Methods(http.MethodGet)
	api.HandleFunc("/sets/{id}", s.getSet).Methods(http.MethodGet)
	api.HandleFunc("/sets/{id}", s.deleteSet).Methods(http.MethodDelete)
	api.HandleFunc("/sets/{id}/stats", s.setStats).Methods(http.MethodGet)
	api.HandleFunc("/sets/{id}/due", s.dueCards).Methods(http.MethodGet)
	api.HandleFunc("/sets/{id}/history", s.history).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.allStats).Methods(http.MethodGet)

	api.HandleFunc("/sessions", s.beginSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/answers", s.answer).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/finish", s.finish).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.abandon).Methods(http.MethodDelete)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "no such endpoint")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) register(t *session.Tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	s.sessions[t.ID] = &openSession{t: t, lastUsed: now}
}

func (s *Server) lookup(id string) (*openSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	entry, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNoSession
	}
	entry.lastUsed = now
	return entry, nil
}

// expireLocked drops sessions idle for longer than the TTL. Open ones are
// abandoned, which writes nothing. An entry busy in a handler is left for
// a later pass.
func (s *Server) expireLocked(now time.Time) {
	for id, entry := range s.sessions {
		if now.Sub(entry.lastUsed) <= s.ttl {
			continue
		}
		if !entry.mu.TryLock() {
			continue
		}
		s.study.Abandon(entry.t)
		entry.mu.Unlock()
		delete(s.sessions, id)
		s.logger.Info("expired idle study session", "session_id", id, "idle", now.Sub(entry.lastUsed))
	}
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

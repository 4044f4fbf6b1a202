// internal/httpserver/server.go
//
// HTTP adapter between a chat platform and the game bot.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     access log, JSON content type).
//   - POST /events (bot token required): one chat message in, one reply out.
//   - Leaderboards: GET /leaderboard/{scope}, GET /leaderboard (global).
//   - Admin (basic auth): PUT /admin/scopes/{scope}/enabled.
//   - Diagnostics: /health, /debug/corpus.
//
// Notes:
//   - A reply image travels base64-encoded inside the JSON body.
//   - 204 means the message was not addressed to the bot.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessbot/internal/bot"
	"github.com/robalobadob/guessbot/internal/leaderboard"
	"github.com/robalobadob/guessbot/internal/words"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Dispatcher handles one chat event.
type Dispatcher interface {
	Handle(ctx context.Context, ev bot.Event) (bot.Reply, bool)
}

// ScopeToggle switches games on or off for a group scope.
type ScopeToggle interface {
	Enabled(ctx context.Context, scope string) (bool, error)
	SetEnabled(ctx context.Context, scope string, on bool) error
}

// Options configures a Server. Stats and the admin credentials are optional;
// without AdminPasswordHash the admin routes answer 403.
type Options struct {
	Dispatcher Dispatcher
	Rankings   bot.Rankings
	Toggle     ScopeToggle
	Stats      func() words.Stats

	JWTSecret         string
	AdminUser         string
	AdminPasswordHash string

	Debug   bool
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Server bundles the router and the bot collaborators.
type Server struct {
	r        *chi.Mux
	opts     Options
	validate *validator.Validate
	logger   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	logger := log.Logger
	if o.Logger != nil {
		logger = *o.Logger
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	s := &Server{
		r:        chi.NewRouter(),
		opts:     o,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "http").Logger(),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(o.Timeout))
	s.r.Use(hlog.NewHandler(s.logger))
	s.r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", d).
			Msg("request")
	}))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	if o.Debug && o.Stats != nil {
		s.r.Get("/debug/corpus", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, o.Stats())
		})
	}

	s.r.With(s.requireBotToken).Post("/events", s.handleEvent)

	s.r.Get("/leaderboard", s.handleGlobalLeaderboard)
	s.r.Get("/leaderboard/{scope}", s.handleLeaderboard)

	s.r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Put("/scopes/{scope}/enabled", s.handleSetEnabled)
		r.Get("/scopes/{scope}/enabled", s.handleGetEnabled)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Router exposes the router; main mounts it on an http.Server and tests
// drive it with httptest.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ events -------------------------------------

type eventReq struct {
	Scope    string `json:"scope" validate:"required,max=128"`
	Private  bool   `json:"private"`
	Admin    bool   `json:"admin"`
	UserID   string `json:"userId" validate:"required,max=128"`
	UserName string `json:"userName" validate:"max=128"`
	Text     string `json:"text" validate:"required,max=512"`
}

type eventRes struct {
	Text  string `json:"text"`
	Image []byte `json:"image,omitempty"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.invalid(w, err)
		return
	}
	reply, ok := s.opts.Dispatcher.Handle(r.Context(), bot.Event{
		Scope:    req.Scope,
		Private:  req.Private,
		Admin:    req.Admin,
		UserID:   req.UserID,
		UserName: req.UserName,
		Text:     req.Text,
	})
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, eventRes{Text: reply.Text, Image: reply.Image})
}

// ---------------------------- leaderboards ---------------------------------

type rankingEntry struct {
	PlayerID    string  `json:"playerId"`
	DisplayName string  `json:"displayName"`
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"gamesPlayed"`
	WinRate     float64 `json:"winRate"`
}

type rankingRes struct {
	Scope   string         `json:"scope,omitempty"`
	Sort    string         `json:"sort"`
	Entries []rankingEntry `json:"entries"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	key, limit, ok := rankingQuery(w, r)
	if !ok {
		return
	}
	scope := chi.URLParam(r, "scope")
	entries, err := s.opts.Rankings.Ranking(r.Context(), scope, key, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("load ranking")
		fail(w, http.StatusInternalServerError, "ranking_failed")
		return
	}
	writeJSON(w, http.StatusOK, toRanking(scope, key, entries))
}

func (s *Server) handleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	key, limit, ok := rankingQuery(w, r)
	if !ok {
		return
	}
	entries, err := s.opts.Rankings.GlobalRanking(r.Context(), key, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("load global ranking")
		fail(w, http.StatusInternalServerError, "ranking_failed")
		return
	}
	writeJSON(w, http.StatusOK, toRanking("", key, entries))
}

// rankingQuery reads ?sort= and ?limit=, answering 400 itself on bad input.
func rankingQuery(w http.ResponseWriter, r *http.Request) (leaderboard.SortKey, int, bool) {
	key, ok := leaderboard.ParseSortKey(r.URL.Query().Get("sort"))
	if !ok {
		fail(w, http.StatusBadRequest, "bad_sort")
		return "", 0, false
	}
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			fail(w, http.StatusBadRequest, "bad_limit")
			return "", 0, false
		}
		limit = n
	}
	return key, limit, true
}

func toRanking(scope string, key leaderboard.SortKey, entries []leaderboard.Entry) rankingRes {
	out := rankingRes{Scope: scope, Sort: string(key), Entries: make([]rankingEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, rankingEntry{
			PlayerID:    e.PlayerID,
			DisplayName: e.DisplayName,
			Wins:        e.Wins,
			GamesPlayed: e.GamesPlayed,
			WinRate:     e.WinRate(),
		})
	}
	return out
}

// ------------------------------- admin -------------------------------------

type enabledReq struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (s *Server) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.invalid(w, err)
		return
	}
	scope := chi.URLParam(r, "scope")
	if err := s.opts.Toggle.SetEnabled(r.Context(), scope, *req.Enabled); err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("set enabled")
		fail(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.logger.Info().Str("scope", scope).Bool("enabled", *req.Enabled).Msg("scope toggled by admin")
	writeJSON(w, http.StatusOK, map[string]any{"scope": scope, "enabled": *req.Enabled})
}

func (s *Server) handleGetEnabled(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	on, err := s.opts.Toggle.Enabled(r.Context(), scope)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("load enabled")
		fail(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scope": scope, "enabled": on})
}

// ------------------------------- util --------------------------------------

func (s *Server) invalid(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(w, http.StatusBadRequest, "invalid")
		return
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid", "fields": fields})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

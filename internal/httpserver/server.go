// internal/httpserver/server.go
//
// HTTP wiring for the game engine. This is the surface a platform adapter
// (or an operator) calls; it renders nothing, it just moves Outcome values.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/submit, GET /game/leaderboard,
//     GET /game/stats, GET /game/challenge.
//   - Admin endpoints (JWT-gated): POST /game/bind, POST /game/reset.
//   - Admin login: POST /auth/login (see auth.go).
//
// Notes:
//   - The handler timeout is 15s, deliberately above the verifier's 10s
//     budget so a slow lookup surfaces as a game rejection, not a 503.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/namegame/shiritori/internal/game"
)

// Server bundles the router and the game engine.
type Server struct {
	r      *chi.Mux
	engine *game.Engine
}

// New constructs a Server, installs middleware, and registers routes.
func New(engine *game.Engine) *Server {
	s := &Server{r: chi.NewRouter(), engine: engine}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(15 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"shiritori","endpoints":["/health","POST /game/submit","GET /game/leaderboard","GET /game/stats","GET /game/challenge","POST /auth/login"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints
	s.r.Post("/game/submit", s.handleSubmit)
	s.r.Get("/game/leaderboard", s.handleLeaderboard)
	s.r.Get("/game/stats", s.handleStats)
	s.r.Get("/game/challenge", s.handleChallenge)

	// Admin endpoints
	s.r.Post("/auth/login", s.handleLogin)
	s.r.With(s.requireAdmin()).Post("/game/bind", s.handleBind)
	s.r.With(s.requireAdmin()).Post("/game/reset", s.handleReset)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

type submitReq struct {
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
}

// handleSubmit runs one message through the engine pipeline and returns the
// Outcome verbatim. Rejections are 200s: they are game results, not errors.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.GuildID == "" || req.UserID == "" {
		http.Error(w, `{"error":"missing_ids"}`, http.StatusBadRequest)
		return
	}
	out := s.engine.Submit(r.Context(), req.GuildID, req.ChannelID, req.UserID, req.Text, time.Now())
	_ = json.NewEncoder(w).Encode(out)
}

type leaderboardRes struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	Rows       []game.Entry `json:"rows"`
}

// handleLeaderboard returns one page of the guild leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		http.Error(w, `{"error":"missing_guild"}`, http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	rows, pageUsed, totalPages := s.engine.Page(guildID, page, size)
	if rows == nil {
		rows = []game.Entry{}
	}
	_ = json.NewEncoder(w).Encode(leaderboardRes{Page: pageUsed, TotalPages: totalPages, Rows: rows})
}

// handleStats returns one player's XP, rank, and the guild player count.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	userID := r.URL.Query().Get("userId")
	if guildID == "" || userID == "" {
		http.Error(w, `{"error":"missing_ids"}`, http.StatusBadRequest)
		return
	}
	xp, rank, players, ok := s.engine.UserStats(guildID, userID)
	if !ok {
		http.Error(w, `{"error":"never_played"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"xp": xp, "rank": rank, "players": players,
	})
}

// handleChallenge reports the current letter constraint for a guild.
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		http.Error(w, `{"error":"missing_guild"}`, http.StatusBadRequest)
		return
	}
	letter, open, ok := s.engine.Challenge(guildID)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"configured": ok, "letter": letter, "open": open,
	})
}

// ------------------------------ ADMIN --------------------------------------

type bindReq struct {
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
}

// handleBind designates the game channel for a guild.
func (s *Server) handleBind(w http.ResponseWriter, r *http.Request) {
	var req bindReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GuildID == "" || req.ChannelID == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	letter := s.engine.BindChannel(r.Context(), req.GuildID, req.ChannelID, time.Now())
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "letter": letter})
}

type resetReq struct {
	GuildID string `json:"guildId"`
}

// handleReset clears one guild's game.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GuildID == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	letter := s.engine.Reset(r.Context(), req.GuildID, time.Now())
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "letter": letter})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

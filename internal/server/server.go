// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/gateway"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxBodyBytes caps request bodies (1MB).
	DefaultMaxBodyBytes = 1 << 20

	// MaxHistoryTurns is the most turns accepted from a client.
	MaxHistoryTurns = 200

	healthTimeout = 2 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server. Zero values take defaults.
type Options struct {
	Addr         string
	Mode         actions.Mode
	Greeting     bool
	MaxBodyBytes int64
	CORSOrigins  []string
	Logger       *log.Logger
	Version      string
}

// Server serves the Mio web view and its JSON actions.
type Server struct {
	gw      *gateway.Gateway
	actions *actions.Actions
	opts    Options
	logger  *log.Logger
	router  *http.ServeMux
	started time.Time

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New creates a Server over gw.
func New(gw *gateway.Gateway, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Mode == "" {
		opts.Mode = actions.ModeChat
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		gw:      gw,
		actions: actions.New(gw),
		opts:    opts,
		logger:  logger,
		router:  http.NewServeMux(),
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

// WithActions replaces the action runner. Tests use it to pin correlation ids.
func (s *Server) WithActions(a *actions.Actions) *Server {
	s.actions = a
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("POST /{$}", s.handleSubmit)

	s.router.HandleFunc("POST /api/chat", s.handleChat)
	s.router.HandleFunc("POST /api/summarize", s.handleSummarize)

	s.router.HandleFunc("GET /health", s.handleHealth)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.logger),
		MaxBodyMiddleware(s.opts.MaxBodyBytes),
		CORSMiddleware(DefaultCORSConfig(s.opts.CORSOrigins)),
	)(s.router)
}

// ============================================================================
// WEB VIEW
// ============================================================================

// handleIndex handles GET /.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	reducer := conversation.NewReducer(conversation.WithGreeting(s.opts.Greeting))
	s.writePage(w, http.StatusOK, reducer, pageData{Mode: string(s.opts.Mode)})
}

// handleSubmit handles POST /. The whole submit-respond-resolve cycle runs
// within the request, so the rendered page never contains a pending turn.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeFormError(w, err)
		return
	}

	mode := s.opts.Mode
	if raw := r.PostFormValue("mode"); raw != "" {
		if m, err := actions.ParseMode(raw); err == nil {
			mode = m
		}
	}

	turns, err := decodeHistory(r.PostFormValue("history"))
	if err != nil {
		http.Error(w, "invalid history", http.StatusBadRequest)
		return
	}
	if len(turns) > MaxHistoryTurns {
		http.Error(w, "history too long", http.StatusBadRequest)
		return
	}

	var reducer *conversation.Reducer
	if turns == nil {
		reducer = conversation.NewReducer(conversation.WithGreeting(s.opts.Greeting))
	} else {
		reducer = conversation.NewReducer(conversation.WithTurns(turns))
	}

	data := pageData{Mode: string(mode)}
	prompt := r.PostFormValue("prompt")

	req, err := reducer.Submit(prompt)
	if err != nil {
		data.Prompt = prompt
		data.FieldError = actions.MsgPromptRequired
		s.writePage(w, http.StatusUnprocessableEntity, reducer, data)
		return
	}

	state := s.actions.Respond(r.Context(), mode, req.LatestMessage, req.History)
	if note := reducer.Resolve(state.Result()); note != nil {
		data.Toast = &toastView{Title: note.Title, Message: note.Message}
		s.logger.Warn("SUBMISSION_FAILED", "mode", mode, "prompt_id", state.PromptID, "err", note.Message)
	}

	s.writePage(w, http.StatusOK, reducer, data)
}

func (s *Server) writePage(w http.ResponseWriter, status int, reducer *conversation.Reducer, data pageData) {
	turns := reducer.Turns()
	history, err := encodeHistory(turns)
	if err != nil {
		s.logger.Error("HISTORY_ENCODE_FAILED", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Turns = viewTurns(turns)
	data.HistoryJSON = history
	data.Provider = s.gw.ProviderName()

	var buf bytes.Buffer
	if err := renderPage(&buf, data); err != nil {
		s.logger.Error("RENDER_FAILED", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid form", http.StatusBadRequest)
}

// ============================================================================
// JSON ACTIONS
// ============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Prompt  string                      `json:"prompt"`
	History []conversation.HistoryEntry `json:"history"`
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	Topic string `json:"topic"`
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.History) > MaxHistoryTurns {
		s.writeError(w, http.StatusBadRequest, "history too long")
		return
	}
	for i, h := range req.History {
		if h.Role != conversation.RoleUser && h.Role != conversation.RoleModel {
			s.writeError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid role '%s' at history %d: must be one of user, model", h.Role, i))
			return
		}
	}

	s.writeState(w, s.actions.Chat(r.Context(), req.Prompt, req.History))
}

// handleSummarize handles POST /api/summarize.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.writeState(w, s.actions.Summarize(r.Context(), req.Topic))
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeState(w http.ResponseWriter, st actions.FormState) {
	switch {
	case st.Invalid:
		s.writeJSON(w, http.StatusBadRequest, st)
	case !st.OK():
		s.logger.Warn("ACTION_FAILED", "prompt_id", st.PromptID, "err", st.Error)
		s.writeJSON(w, http.StatusBadGateway, st)
	default:
		s.writeJSON(w, http.StatusOK, st)
	}
}

// ============================================================================
// HEALTH
// ============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Provider      string `json:"provider"`
	Mode          string `json:"mode"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ProviderState string `json:"provider_status,omitempty"`
}

// runningChecker is implemented by providers that can report reachability.
type runningChecker interface {
	CheckRunning(ctx context.Context) error
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:        "ok",
		Version:       s.opts.Version,
		Provider:      s.gw.ProviderName(),
		Mode:          string(s.opts.Mode),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}

	if checker, ok := s.gw.Provider().(runningChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := checker.CheckRunning(ctx); err == nil {
			health.ProviderState = "ok"
		} else {
			health.ProviderState = "unavailable"
			health.Status = "degraded"
		}
	}

	s.writeJSON(w, http.StatusOK, health)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until the server stops.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("SERVER_START", "addr", s.opts.Addr, "version", s.opts.Version, "provider", s.gw.ProviderName())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.closed = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("SERVER_SHUTDOWN", "uptime", time.Since(s.started).Round(time.Second))
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("JSON_WRITE_FAILED", "err", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

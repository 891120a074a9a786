package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"leadradar/internal/config"
	"leadradar/internal/leads"
	"leadradar/internal/logging"
	"leadradar/internal/services"
	"leadradar/internal/signals"
)

const maxBodyBytes = 1 << 20

type apiServer struct {
	bind         string
	logger       *slog.Logger
	service      *leads.Service
	requireToken bool

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, svc *leads.Service, logger *slog.Logger) *apiServer {
	if cfg == nil || svc == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}
	srv := &apiServer{
		bind:         bind,
		logger:       logging.NewComponentLogger(loggerOrNop(logger), "api-server"),
		service:      svc,
		requireToken: cfg.Auth.RequireToken,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Scans wait on one LLM round-trip per signal.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

// routes builds the handler tree: request id, CORS, panic recovery, then
// bearer auth in front of the mux.
func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /signals", s.handleListSignals)
	mux.HandleFunc("GET /signals/{$}", s.handleGetSignal)
	mux.HandleFunc("GET /signals/{id}", s.handleGetSignal)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /regenerate", s.handleRegenerate)
	mux.HandleFunc("GET /archive", s.handleListArchive)
	mux.HandleFunc("POST /archive", s.handleArchive)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("POST /settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /cron/reset", s.handleResetUsage)
	mux.HandleFunc("POST /cron/reset", s.handleResetUsage)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Method-less patterns lose to the method-specific ones above, so they
	// only see unsupported methods.
	for _, path := range []string{
		"/scan", "/search", "/signals", "/signals/{$}", "/signals/{id}", "/analyze", "/regenerate",
		"/archive", "/settings", "/stats", "/auth/login", "/cron/reset", "/healthz",
	} {
		mux.HandleFunc(path, s.handleMethodNotAllowed)
	}

	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.recoverMiddleware(handler)
	handler = withCORS(handler)
	handler = s.requestIDMiddleware(handler)
	return handler
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server error", "api_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check api_bind and restart the daemon"),
				logging.String(logging.FieldImpact, "dashboard API unavailable"),
			)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *apiServer) address() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleScan(w http.ResponseWriter, r *http.Request) {
	var req leads.ScanRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.service.Scan(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "Error during scan", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type searchRequest struct {
	Query string `json:"query"`
}

type signalListResponse struct {
	Signals []signals.Signal `json:"signals"`
	Total   int              `json:"total"`
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := s.service.Search(r.Context(), req.Query)
	if err != nil {
		s.writeServiceError(w, r, "Error searching signals", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results, "total": len(results)})
}

func (s *apiServer) handleListSignals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := s.service.List(r.Context(), leads.ListFilter{
		Source:      query.Get("source"),
		Temperature: query.Get("temperature"),
		Status:      query.Get("status"),
	})
	if err != nil {
		s.writeServiceError(w, r, "Error fetching signals", err)
		return
	}
	s.writeJSON(w, http.StatusOK, signalListResponse{Signals: items, Total: len(items)})
}

func (s *apiServer) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	sig, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "Error fetching signal", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"signal": sig})
}

type signalRequest struct {
	SignalID string `json:"signalId"`
	Angle    string `json:"angle,omitempty"`
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sig, err := s.service.Analyze(r.Context(), req.SignalID)
	if err != nil {
		s.writeServiceError(w, r, "Error analyzing signal", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "signal": sig})
}

func (s *apiServer) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, sig, err := s.service.Regenerate(r.Context(), req.SignalID, req.Angle)
	if err != nil {
		s.writeServiceError(w, r, "Error regenerating message", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "draftMessage": draft, "signal": sig})
}

func (s *apiServer) handleListArchive(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.Archived(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Error fetching archive", err)
		return
	}
	s.writeJSON(w, http.StatusOK, signalListResponse{Signals: items, Total: len(items)})
}

func (s *apiServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sig, err := s.service.Archive(r.Context(), req.SignalID)
	if err != nil {
		s.writeServiceError(w, r, "Error archiving signal", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "signal": sig})
}

func (s *apiServer) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.service.Settings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Error fetching settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *apiServer) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch signals.RadarSettings
	if err := decodeBody(r, &patch, false); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	merged, err := s.service.UpdateSettings(r.Context(), patch)
	if err != nil {
		s.writeServiceError(w, r, "Error updating settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": merged})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Error fetching stats", err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, "An error occurred during authentication", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleResetUsage(w http.ResponseWriter, r *http.Request) {
	message, err := s.service.ResetUsage(r.Context(), bearerToken(r))
	if err != nil {
		s.writeServiceError(w, r, "Error resetting counter", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// decodeBody reads a JSON body into target. When optional is set an empty
// body leaves target untouched.
func decodeBody(r *http.Request, target any, optional bool) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body")
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps err onto a status code. Client errors carry their
// own message; server errors carry label plus the underlying detail.
func (s *apiServer) writeServiceError(w http.ResponseWriter, r *http.Request, label string, err error) {
	status := services.HTTPStatus(err)
	if status != http.StatusInternalServerError {
		s.writeError(w, status, services.PublicMessage(err))
		return
	}
	logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), label, "api_request_failed",
		logging.String("path", r.URL.Path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the database file and daemon logs"),
		logging.String(logging.FieldImpact, "request failed"),
	)
	s.writeJSON(w, status, map[string]string{"error": label, "details": err.Error()})
}

func loggerOrNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return logging.NewNop()
	}
	return logger
}

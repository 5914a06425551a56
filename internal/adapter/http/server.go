// Package http exposes the search API plus health, readiness, and metrics
// endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/search"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server routes search, suggestion, history, and operational endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	orch      *search.Orchestrator
	addresses *search.AddressResolver
	history   domain.HistoryStore
	publisher domain.OutcomePublisher

	pageSize     int
	suggestLimit int
}

// Options carries the collaborators the API handlers depend on.
// Publisher may be nil when event publishing is disabled.
type Options struct {
	Orchestrator *search.Orchestrator
	Addresses    *search.AddressResolver
	History      domain.HistoryStore
	Publisher    domain.OutcomePublisher
	Ready        ReadinessChecker
	PageSize     int
	SuggestLimit int
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:       logger,
		orch:         opts.Orchestrator,
		addresses:    opts.Addresses,
		history:      opts.History,
		publisher:    opts.Publisher,
		pageSize:     opts.PageSize,
		suggestLimit: opts.SuggestLimit,
	}

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/replay", s.handleReplay)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(opts.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type searchResponse struct {
	Results []domain.FacilityResult `json:"results"`
	Query   domain.SearchQuery      `json:"query"`
	Failure domain.FailureReason    `json:"failure,omitempty"`
}

// handleSearch runs a search from loosely validated query parameters. Input
// problems surface as a failure reason in the envelope, not as an HTTP error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	radius, _ := strconv.ParseFloat(params.Get("radius"), 64)

	in := search.Input{
		Address:  params.Get("address"),
		RadiusKm: radius,
		Category: params.Get("type"),
		Page:     s.pageFor(params),
	}
	s.executeAndRespond(w, r, in)
}

// handleReplay re-runs a stored search from its history link. Unlike
// /api/search, a malformed record is a client error.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	q, err := domain.DecodeQuery(r.URL.Query())
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteRecord) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "replay failed"})
		return
	}

	in := search.Input{
		Address:  q.Address,
		RadiusKm: q.RadiusKm,
		Category: q.Category,
		Page:     s.pageFor(r.URL.Query()),
	}
	s.executeAndRespond(w, r, in)
}

func (s *Server) executeAndRespond(w http.ResponseWriter, r *http.Request, in search.Input) {
	outcome := s.orch.Execute(r.Context(), in)

	if outcome.Success() {
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			// History failures never fail the search itself.
			if err := s.history.Save(r.Context(), userID, outcome.Query); err != nil {
				s.logger.Error("failed to save search history", "error", err, "user_id", userID)
			}
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOutcome(r.Context(), outcome); err != nil {
			s.logger.Error("failed to publish search outcome", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results: outcome.Results,
		Query:   outcome.Query,
		Failure: outcome.Failure,
	})
}

type suggestResponse struct {
	Suggestions []domain.GeocodeCandidate `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")

	candidates, err := s.addresses.Suggest(r.Context(), text, s.suggestLimit)
	if err != nil {
		s.logger.Error("address suggestion failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "suggestion provider unavailable"})
		return
	}
	if candidates == nil {
		candidates = []domain.GeocodeCandidate{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: candidates})
}

type historyEntry struct {
	ID        string             `json:"id"`
	Query     domain.SearchQuery `json:"query"`
	Replay    string             `json:"replay"`
	CreatedAt time.Time          `json:"createdAt"`
}

// handleHistory lists the caller's saved searches, newest first, each with a
// replay link query string.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "X-User-ID header is required"})
		return
	}

	records, err := s.history.List(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list search history", "error", err, "user_id", userID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			ID:        rec.ID,
			Query:     rec.Query,
			Replay:    domain.EncodeQuery(rec.Query).Encode(),
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]historyEntry{"history": entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// pageFor reads limit/ofs, forwarded to the provider verbatim. The limit
// defaults to the configured page size; a caller cannot raise it above that.
func (s *Server) pageFor(params url.Values) domain.Page {
	page := domain.Page{Limit: s.pageSize}
	if n, err := strconv.Atoi(params.Get("limit")); err == nil && n > 0 && n < s.pageSize {
		page.Limit = n
	}
	if n, err := strconv.Atoi(params.Get("ofs")); err == nil && n > 0 {
		page.Offset = n
	}
	return page
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

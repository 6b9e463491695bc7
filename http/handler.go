package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/sheetbridge"
)

type Service interface {
	Fetch(ctx context.Context, ep sheetbridge.Endpoint) (sheetbridge.RecordSet, error)
	Values(ctx context.Context, ep sheetbridge.Endpoint) ([]*string, error)
	ListFetches(ctx context.Context, q sheetbridge.JournalQuery) (sheetbridge.JournalPage, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	Endpoints []sheetbridge.Endpoint
	CORS      CORSConfig
	// Journal mounts GET /api/_journal.
	Journal bool
}

const (
	wakeupPath  = "/wakeup"
	journalPath = "/api/_journal"

	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// ReservedPaths are routes the handler always owns; endpoints cannot use them.
func ReservedPaths() []string {
	return []string{wakeupPath, journalPath}
}

// Handler serves configured sheet endpoints as JSON.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with one GET route per endpoint, plus
// /wakeup and, when enabled, the journal listing.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(writeNotFound)
	r.MethodNotAllowed(writeMethodNotAllowed)

	r.Get(wakeupPath, h.handleWakeup)

	for _, ep := range h.config.Endpoints {
		r.Get(ep.Path, h.endpointHandler(ep))
	}

	if h.config.Journal {
		r.Get(journalPath, h.handleJournal)
	}

	return r
}

func (h *Handler) endpointHandler(ep sheetbridge.Endpoint) http.HandlerFunc {
	if ep.ShapeOrDefault() == sheetbridge.ShapeValues {
		return func(w http.ResponseWriter, r *http.Request) {
			values, err := h.service.Values(r.Context(), ep)
			if err != nil {
				h.fetchFailed(w, r, ep, err)
				return
			}

			slog.Info("served endpoint", "endpoint", ep.Name, "values", len(values), "request_id", RequestIDFromContext(r.Context()))
			_ = WriteJSON(w, http.StatusOK, map[string][]*string{ep.EnvelopeKey(): values})
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.Fetch(r.Context(), ep)
		if err != nil {
			h.fetchFailed(w, r, ep, err)
			return
		}

		slog.Info("served endpoint", "endpoint", ep.Name, "records", len(records), "request_id", RequestIDFromContext(r.Context()))
		_ = WriteJSON(w, http.StatusOK, map[string]sheetbridge.RecordSet{ep.EnvelopeKey(): records})
	}
}

// fetchFailed logs the classified cause and answers with the endpoint's
// generic failure message. The kind never reaches the client.
func (h *Handler) fetchFailed(w http.ResponseWriter, r *http.Request, ep sheetbridge.Endpoint, err error) {
	outcome := sheetbridge.OutcomeError
	var fetchErr *sheetbridge.FetchError
	if errors.As(err, &fetchErr) {
		outcome = fetchErr.Outcome()
	}

	slog.Error("fetch endpoint failed",
		"endpoint", ep.Name,
		"range", ep.Range,
		"outcome", outcome,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	WriteError(w, http.StatusInternalServerError, ep.FailureMessage())
}

// WakeupResponse is the liveness payload served at /wakeup.
type WakeupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) handleWakeup(w http.ResponseWriter, r *http.Request) {
	slog.Debug("wakeup received", "request_id", RequestIDFromContext(r.Context()))
	_ = WriteJSON(w, http.StatusOK, WakeupResponse{Status: "ok", Message: "Wakeup OK"})
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultJournalLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = max(1, min(maxJournalLimit, parsed))
	}

	page, err := h.service.ListFetches(r.Context(), sheetbridge.JournalQuery{
		Endpoint: query.Get("endpoint"),
		Limit:    limit,
		Cursor:   query.Get("cursor"),
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, page)
}

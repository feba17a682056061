package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"protrader/config"
	"protrader/internal/app"
	"protrader/models"
	"protrader/services"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Tickers string `json:"tickers"`
}

// AnalyzeResponse is the batch analysis payload
type AnalyzeResponse struct {
	Results []*models.AnalysisResult `json:"results"`
	Ranking []models.RankingEntry    `json:"ranking"`
}

// HandleAnalyze runs a sequential batch analysis over the submitted tickers
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Tickers) == "" {
		h.jsonError(w, "tickers is required", http.StatusBadRequest)
		return
	}

	results, ranking, err := h.app.AnalyzeBatch(r.Context(), req.Tickers)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, AnalyzeResponse{Results: results, Ranking: ranking})
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "not_configured",
		},
	}

	if h.app.Repo() != nil {
		if err := h.app.Repo().Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleGetWatchlist returns the tracked symbols sorted by score
func (h *Handler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Watchlist())
}

// HandleWatchSymbol analyzes a ticker and adds it to the watchlist
func (h *Handler) HandleWatchSymbol(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		h.jsonError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	res, err := h.app.WatchSymbol(r.Context(), ticker)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, res)
}

// HandleUnwatchSymbol removes a ticker from the watchlist
func (h *Handler) HandleUnwatchSymbol(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		h.jsonError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	h.app.UnwatchSymbol(r.Context(), ticker)
	w.WriteHeader(http.StatusNoContent)
}

// HandleInvalidateCache drops the cached series for a ticker
func (h *Handler) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		h.jsonError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	if err := h.app.InvalidateCachedSeries(r.Context(), ticker); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearWatchlist removes every tracked symbol
func (h *Handler) HandleClearWatchlist(w http.ResponseWriter, r *http.Request) {
	h.app.ClearWatchlist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Azcobu/portdash/internal/apperrors"
	"github.com/Azcobu/portdash/internal/model"
	"github.com/Azcobu/portdash/internal/service"
)

// defaultLookThroughLimit is used when the ranking query does not specify
// a limit.
const defaultLookThroughLimit = 10

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// Portfolio returns the current snapshot: per-holding metrics in source
// order plus the aggregate summary row. Formatting (currency strings,
// arrows, colors) is the frontend's job; this is data records only.
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.portfolioService.CurrentSnapshot()
	if err != nil {
		respondError(w, errorStatus(err), "no portfolio snapshot available", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// Refresh triggers a metrics pass and returns the resulting snapshot.
// Concurrent triggers share one pass. On failure the previous snapshot
// remains the last-good result.
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.portfolioService.Refresh(r.Context())
	if err != nil {
		respondError(w, errorStatus(err), "metrics pass failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// LookThroughResponse represents one look-through ranking
type LookThroughResponse struct {
	Mode    model.RankMode       `json:"mode"`
	Limit   int                  `json:"limit"`
	Ranking []model.RankedWeight `json:"ranking"`
}

// LookThrough returns the consolidated underlying-exposure ranking.
// Query parameters: mode (holdings|countries|sectors) and limit
// (positive integer, default 10).
func (h *PortfolioHandler) LookThrough(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseRankMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mode parameter", err.Error())
		return
	}

	limit := defaultLookThroughLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit parameter", "limit must be a positive integer")
			return
		}
	}

	ranking, err := h.portfolioService.LookThrough(r.Context(), mode, limit)
	if err != nil {
		respondError(w, errorStatus(err), "failed to compute look-through", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, LookThroughResponse{
		Mode:    mode,
		Limit:   limit,
		Ranking: ranking,
	})
}

// ImportResponse represents the result of a portfolio import
type ImportResponse struct {
	Imported int `json:"imported"`
}

// Import replaces the stored portfolio definition with the CSV in the
// request body. All-or-nothing: a malformed table leaves the previous
// definition untouched.
func (h *PortfolioHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	count, err := h.portfolioService.ImportCSV(r.Context(), r.Body)
	if err != nil {
		respondError(w, errorStatus(err), "portfolio import failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

// errorStatus maps the engine's error taxonomy onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNoSnapshot):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrMalformedInput),
		errors.Is(err, apperrors.ErrDuplicateTicker),
		errors.Is(err, apperrors.ErrUnknownIssuer),
		errors.Is(err, apperrors.ErrUnknownRankMode),
		errors.Is(err, apperrors.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrMissingQuote),
		errors.Is(err, apperrors.ErrZeroCostBasis),
		errors.Is(err, apperrors.ErrZeroPortfolioValue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrQuoteProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

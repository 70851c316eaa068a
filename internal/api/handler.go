package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"trade-journal/config"
	"trade-journal/internal/app"
	"trade-journal/models"
	"trade-journal/observability"
	"trade-journal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	db  HealthChecker
	cfg *config.Config
}

// NewHandler creates a new Handler. db may be nil when no database is
// configured.
func NewHandler(application *app.App, db HealthChecker, cfg *config.Config) *Handler {
	return &Handler{app: application, db: db, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.db != nil {
		if err := h.db.Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, http.StatusOK, status)
}

// HandleCreateTrade opens a new trade for the authenticated user
func (h *Handler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req models.CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.app.CreateTrade(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, trade)
}

// HandleListTrades returns a filtered page of trades
func (h *Handler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	list, err := h.app.ListTrades(r.Context(), userID, query)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, list)
}

// HandleGetTrade returns a single trade
func (h *Handler) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	trade, err := h.app.GetTrade(r.Context(), userID, id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, trade)
}

// HandleUpdateTrade patches an open trade
func (h *Handler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	var req models.UpdateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.app.UpdateTrade(r.Context(), userID, id, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, trade)
}

// HandleCloseTrade closes an open trade
func (h *Handler) HandleCloseTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	var req models.CloseTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.app.CloseTrade(r.Context(), userID, id, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, trade)
}

// HandleDeleteTrade removes a trade
func (h *Handler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if err := h.app.DeleteTrade(r.Context(), userID, id); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddTradeLeg appends an execution leg to a trade
func (h *Handler) HandleAddTradeLeg(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	var req models.CreateTradeLegRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	leg, err := h.app.AddTradeLeg(r.Context(), userID, id, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusCreated, leg)
}

// HandleGetTradeLegs returns a trade's execution legs
func (h *Handler) HandleGetTradeLegs(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	legs, err := h.app.GetTradeLegs(r.Context(), userID, id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, legs)
}

// HandleImportTrades journals trades from a CSV request body
func (h *Handler) HandleImportTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	report, err := h.app.ImportCSV(r.Context(), userID, r.Body)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// HandleCritiqueTrade returns an AI review of a closed trade
func (h *Handler) HandleCritiqueTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	critique, err := h.app.CritiqueTrade(r.Context(), userID, id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, critique)
}

// HandleStats returns aggregate stats over closed trades
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.Stats(ctx, userID, from, to)
	})
}

// HandleEquityCurve returns the cumulative P&L series
func (h *Handler) HandleEquityCurve(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.EquityCurve(ctx, userID, from, to)
	})
}

// HandleDrawdown returns drawdown analysis of the equity curve
func (h *Handler) HandleDrawdown(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.Drawdown(ctx, userID, from, to)
	})
}

// HandleWinLoss returns the win/loss distribution
func (h *Handler) HandleWinLoss(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.WinLoss(ctx, userID, from, to)
	})
}

// HandleSetupPerformance returns per-setup aggregates
func (h *Handler) HandleSetupPerformance(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.SetupPerformance(ctx, userID, from, to)
	})
}

// HandleTimeBased returns hourly, weekday, and monthly buckets
func (h *Handler) HandleTimeBased(w http.ResponseWriter, r *http.Request) {
	h.analyticsHandler(w, r, func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error) {
		return h.app.TimeBased(ctx, userID, from, to)
	})
}

func (h *Handler) analyticsHandler(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID, from, to *time.Time) (any, error)) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	result, err := fn(r.Context(), userID, from, to)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// handleError maps domain errors onto HTTP status codes
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidationError(err):
		h.jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	case models.IsNotFound(err):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	default:
		observability.Error("request failed", "error", err)
		h.jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, models.NewValidationError("invalid trade id")
	}
	return id, nil
}

// parseListQuery builds a TradeListQuery from URL parameters
func parseListQuery(r *http.Request) (models.TradeListQuery, error) {
	q := r.URL.Query()

	query := models.TradeListQuery{
		Page:      parseIntParam(q.Get("page"), 1),
		PerPage:   parseIntParam(q.Get("per_page"), 50),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("status"); v != "" {
		status := models.TradeStatus(v)
		query.Filters.Status = &status
	}
	if v := q.Get("direction"); v != "" {
		direction := models.TradeDirection(v)
		query.Filters.Direction = &direction
	}
	if v := q.Get("asset_class"); v != "" {
		class := models.AssetClass(v)
		query.Filters.AssetClass = &class
	}
	if v := q.Get("symbol"); v != "" {
		query.Filters.Symbol = &v
	}
	if v := q.Get("setup"); v != "" {
		query.Filters.SetupName = &v
	}
	if v := q.Get("conviction"); v != "" {
		conviction := models.ConvictionLevel(v)
		query.Filters.Conviction = &conviction
	}
	if v := q.Get("is_paper"); v != "" {
		isPaper, err := strconv.ParseBool(v)
		if err != nil {
			return query, models.NewValidationError("invalid is_paper value")
		}
		query.Filters.IsPaperTrade = &isPaper
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		return query, err
	}
	query.Filters.FromDate = from
	query.Filters.ToDate = to

	return query, nil
}

// parseDateRange reads optional from/to query parameters
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		return nil, nil, models.NewValidationError("invalid from date")
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		return nil, nil, models.NewValidationError("invalid to date")
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, models.NewValidationError("to date precedes from date")
	}
	return from, to, nil
}

func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, format := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(format, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}

func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	writeJSONError(w, message, status)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

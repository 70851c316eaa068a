package api

import (
	"encoding/json"
	"net/http"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

// HandleRiskPositionSize sizes a prospective position
func (h *Handler) HandleRiskPositionSize(w http.ResponseWriter, r *http.Request) {
	var req models.PositionSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.app.PositionSize(&req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleRiskKelly returns the Kelly fraction for the given edge
func (h *Handler) HandleRiskKelly(w http.ResponseWriter, r *http.Request) {
	var req models.KellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.app.Kelly(&req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleRiskPortfolioHeat reports capital at risk across open trades
func (h *Handler) HandleRiskPortfolioHeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		h.jsonError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var accountSize *decimal.Decimal
	if v := r.URL.Query().Get("account_size"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			h.handleError(w, models.NewValidationError("invalid account_size value"))
			return
		}
		accountSize = &parsed
	}

	resp, err := h.app.PortfolioHeat(r.Context(), userID, accountSize)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

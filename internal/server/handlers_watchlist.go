package server

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

// handleWatchlistAdd handles POST /api/watchlist — add a price trigger.
func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		Symbol     string           `json:"symbol"`
		UpperLimit *decimal.Decimal `json:"upper_limit"`
		LowerLimit *decimal.Decimal `json:"lower_limit"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	trigger, err := s.app.WatchlistService.AddTrigger(r.Context(), userID, req.Symbol, req.UpperLimit, req.LowerLimit)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateWatchlistEntry):
			WriteErrorWithCode(w, http.StatusConflict, err.Error(), "duplicate_entry")
		case errors.Is(err, models.ErrInvalidSymbol), errors.Is(err, models.ErrInvalidPrice):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error().Err(err).Msg("Failed to add watchlist trigger")
			WriteError(w, http.StatusInternalServerError, "failed to add watchlist entry")
		}
		return
	}

	WriteJSON(w, http.StatusCreated, trigger)
}

// handleWatchlistList handles GET /api/watchlist.
func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	triggers, err := s.app.WatchlistService.GetTriggers(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list watchlist triggers")
		WriteError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": triggers,
		"count":     len(triggers),
	})
}

// handleWatchlistRemove handles DELETE /api/watchlist/{symbol}.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request, symbol string) {
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	if err := s.app.WatchlistService.RemoveTrigger(r.Context(), userID, symbol); err != nil {
		if errors.Is(err, models.ErrTriggerNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Failed to remove watchlist trigger")
		WriteError(w, http.StatusInternalServerError, "failed to remove watchlist entry")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "removed",
		"symbol": symbol,
	})
}

// handleAlertCheck handles POST /api/alerts/check — evaluate the caller's
// trigger on a symbol at a given price. The dashboard calls this as prices
// stream in; the scheduler sweep covers symbols the dashboard isn't showing.
func (s *Server) handleAlertCheck(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		Symbol       string          `json:"symbol"`
		CurrentPrice decimal.Decimal `json:"current_price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if !req.CurrentPrice.IsPositive() {
		WriteError(w, http.StatusBadRequest, models.ErrInvalidPrice.Error())
		return
	}

	emitted, err := s.app.AlertService.CheckAlerts(r.Context(), userID, req.Symbol, req.CurrentPrice)
	if err != nil {
		s.logger.Error().Err(err).Msg("Alert check failed")
		WriteError(w, http.StatusInternalServerError, "alert check failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"emitted": emitted,
	})
}

package server

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

// handleTradeExecute handles POST /api/trades — settle a buy or sell against
// the user's ledger.
func (s *Server) handleTradeExecute(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		Symbol   string          `json:"symbol"`
		Quantity int64           `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Side     string          `json:"side"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	side, ok := models.ParseTradeSide(req.Side)
	if !ok {
		WriteErrorWithCode(w, http.StatusBadRequest, models.ErrInvalidSide.Error(), "invalid_side")
		return
	}

	result, err := s.app.LedgerService.ExecuteTrade(r.Context(), userID, req.Symbol, req.Quantity, req.Price, side)
	if err != nil {
		s.writeTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"trade":        result.Trade,
		"balance":      result.Balance,
		"realized_pnl": result.RealizedPnL,
	})
}

// writeTradeError maps ledger errors to HTTP status codes.
func (s *Server) writeTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidSymbol),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidSide):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_trade")
	case errors.Is(err, models.ErrInsufficientFunds):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_funds")
	case errors.Is(err, models.ErrInsufficientShares):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_shares")
	case errors.Is(err, models.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrBusy):
		WriteErrorWithCode(w, http.StatusConflict, "account is busy settling another trade, retry shortly", "busy")
	default:
		s.logger.Error().Err(err).Msg("Trade execution failed")
		WriteError(w, http.StatusInternalServerError, "trade execution failed")
	}
}

// handleTradeList handles GET /api/trades — the user's trade log, newest first.
func (s *Server) handleTradeList(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	trades, err := s.app.Storage.Trades().ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list trades")
		WriteError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

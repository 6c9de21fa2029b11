package server

import (
	"errors"
	"net/http"

	"github.com/fintrack/fintrack/internal/models"
)

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	quote, err := s.app.QuoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, models.ErrQuoteUnavailable) {
			WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "quote_unavailable")
			return
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Quote lookup failed")
		WriteError(w, http.StatusInternalServerError, "quote lookup failed")
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

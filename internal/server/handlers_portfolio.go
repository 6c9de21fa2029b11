package server

import (
	"net/http"

	"github.com/fintrack/fintrack/internal/services/portfolio"
)

// handlePortfolioHoldings handles GET /api/portfolio/holdings.
func (s *Server) handlePortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	holdings, err := s.app.PortfolioService.GetHoldingsView(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build holdings view")
		WriteError(w, http.StatusInternalServerError, "failed to build holdings view")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"count":    len(holdings),
	})
}

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	summary, err := s.app.PortfolioService.GetSummary(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build portfolio summary")
		WriteError(w, http.StatusInternalServerError, "failed to build portfolio summary")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handlePortfolioAllocation handles GET /api/portfolio/allocation.
func (s *Server) handlePortfolioAllocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	allocation, err := s.app.PortfolioService.GetAllocation(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build allocation")
		WriteError(w, http.StatusInternalServerError, "failed to build allocation")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"allocation": allocation,
	})
}

// handlePortfolioHistory handles GET /api/portfolio/history — value snapshots,
// oldest first.
func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	snapshots, err := s.app.PortfolioService.GetHistory(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load portfolio history")
		WriteError(w, http.StatusInternalServerError, "failed to load portfolio history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// handlePortfolioChart handles GET /api/portfolio/chart — PNG of the
// portfolio value history.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	snapshots, err := s.app.PortfolioService.GetHistory(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load portfolio history")
		WriteError(w, http.StatusInternalServerError, "failed to load portfolio history")
		return
	}

	png, err := portfolio.RenderHistoryChart(snapshots)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleAccount handles GET /api/account — cash balance and profile.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	user, err := s.app.Storage.Users().Get(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	WriteJSON(w, http.StatusOK, userResponse(user))
}

package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/signup", s.handleAuthSignup)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Trades
	mux.HandleFunc("/api/trades", s.routeTrades)

	// Portfolio
	mux.HandleFunc("/api/portfolio/holdings", s.handlePortfolioHoldings)
	mux.HandleFunc("/api/portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("/api/portfolio/allocation", s.handlePortfolioAllocation)
	mux.HandleFunc("/api/portfolio/history", s.handlePortfolioHistory)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)
	mux.HandleFunc("/api/account", s.handleAccount)

	// Watchlist
	mux.HandleFunc("/api/watchlist/", s.routeWatchlistEntry)
	mux.HandleFunc("/api/watchlist", s.routeWatchlist)

	// Alerts
	mux.HandleFunc("/api/alerts/check", s.handleAlertCheck)

	// Notifications
	mux.HandleFunc("/api/notifications/", s.routeNotificationEntry)
	mux.HandleFunc("/api/notifications", s.handleNotificationList)

	// Market data
	mux.HandleFunc("/api/market/quote/", s.handleMarketQuote)
}

// routeTrades dispatches /api/trades by method.
func (s *Server) routeTrades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleTradeExecute(w, r)
	case http.MethodGet:
		s.handleTradeList(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeWatchlist dispatches /api/watchlist by method.
func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleWatchlistAdd(w, r)
	case http.MethodGet:
		s.handleWatchlistList(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeWatchlistEntry dispatches /api/watchlist/{symbol}.
func (s *Server) routeWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	symbol := PathParam(r, "/api/watchlist/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}
	switch r.Method {
	case http.MethodDelete:
		s.handleWatchlistRemove(w, r, symbol)
	default:
		RequireMethod(w, r, http.MethodDelete)
	}
}

// routeNotificationEntry dispatches /api/notifications/{id}/read.
func (s *Server) routeNotificationEntry(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	if strings.HasSuffix(rest, "/read") {
		id := strings.TrimSuffix(rest, "/read")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "notification id is required in path")
			return
		}
		s.handleNotificationMarkRead(w, r, id)
		return
	}
	WriteError(w, http.StatusNotFound, "Not found")
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
		"go_version": runtime.Version(),
	})
}

// handleConfig handles GET /api/config — non-secret runtime configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"scheduler": map[string]interface{}{
			"enabled":       cfg.Scheduler.Enabled,
			"alert_spec":    cfg.Scheduler.AlertSpec,
			"snapshot_spec": cfg.Scheduler.SnapshotSpec,
		},
		"logging": map[string]interface{}{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// requireUser resolves the authenticated user ID from the request context.
// Writes a 401 and returns "" when the request carries no identity.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "authentication required")
	}
	return userID
}

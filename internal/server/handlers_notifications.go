package server

import (
	"net/http"
)

// handleNotificationList handles GET /api/notifications — newest first.
func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	notifications, err := s.app.Storage.Notifications().ListByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list notifications")
		WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        unread,
	})
}

// handleNotificationMarkRead handles POST /api/notifications/{id}/read.
func (s *Server) handleNotificationMarkRead(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := s.requireUser(w, r)
	if userID == "" {
		return
	}

	if err := s.app.Storage.Notifications().MarkRead(r.Context(), userID, id); err != nil {
		WriteError(w, http.StatusNotFound, "notification not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "read",
		"id":     id,
	})
}

package http

import "net/http"

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Alerts)
}

func (s *Server) handleReadAlert(w http.ResponseWriter, r *http.Request, userID string) {
	alert, err := s.alerts.MarkRead(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.alerts.Dismiss(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import "net/http"

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// IndexHandler serves a small service descriptor so hitting the root of
// the gateway is self-explanatory.
func (s *Server) IndexHandler() http.HandlerFunc {
	type serviceInfo struct {
		Name      string `json:"name"`
		Env       string `json:"env"`
		Session   string `json:"session_state"`
		Analytics bool   `json:"analytics_enabled"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, serviceInfo{
			Name:      s.config.GetAppName(),
			Env:       s.env,
			Session:   s.sessions.State().String(),
			Analytics: s.config.AnalyticsEnabled(),
		})
	}
}

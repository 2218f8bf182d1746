package server

import (
	"io"
	"net/http"
)

// UploadsProxyHandler is the narrow relay for uploaded binary assets:
// ANY /api/uploads/{path...} to {BACKEND_ORIGIN}/uploads/{path}. Only the
// Authorization header goes upstream; only Content-Type and status come
// back. Every non-2xx backend status collapses to one normalized
// not-found shape rather than the backend's error body.
func (s *Server) UploadsProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := s.backendURL("/uploads/"+r.PathValue("path"), r.URL.RawQuery)

		req, err := http.NewRequestWithContext(r.Context(), r.Method, target, nil)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			req.Header.Set("Authorization", auth)
		}

		resp, err := s.proxyClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("target", target).Msg("backend unreachable")
			writeGatewayError(w, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			s.log.Warn().Err(err).Str("target", target).Msg("relay interrupted mid-body")
		}
	}
}

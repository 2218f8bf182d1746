package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/dohahub/eduhub-edge/authapi"
	interrors "github.com/dohahub/eduhub-edge/internal/errors"
)

// refreshWindow is how close to expiry the stored access token may get
// before /auth/me triggers a refresh on the caller's behalf.
const refreshWindow = 30 * time.Second

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// writeSessionError relays the backend's status and message when the
// failure came from the backend, else reports the gateway failure.
func writeSessionError(w http.ResponseWriter, err error) {
	var apiErr *authapi.Error
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.Detail)
		return
	}
	writeGatewayError(w, err)
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		if err := s.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.sessions.User())
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		if err := s.sessions.Register(r.Context(), req.Email, req.Password, req.FullName); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.sessions.User())
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.Refresh(r.Context()); err != nil {
			// The manager already forced a logout; the caller only needs
			// to know the session is gone.
			writeError(w, http.StatusUnauthorized, interrors.ErrSessionExpired.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Caller-triggered refresh: rotate ahead of expiry rather than
		// bouncing a request off a 401.
		if s.sessions.NeedsRefresh(r.Context(), refreshWindow) {
			if err := s.sessions.Refresh(r.Context()); err != nil {
				writeError(w, http.StatusUnauthorized, interrors.ErrSessionExpired.Error())
				return
			}
		}

		user := s.sessions.User()
		if user == nil {
			writeError(w, http.StatusUnauthorized, interrors.ErrNotAuthenticated.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dohahub/eduhub-edge/internal/utils"
)

// TokenPair is the credential pair the backend returns from login and
// refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// User is the read-only identity projection served by GET /api/auth/me.
type User struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	IsAdmin  bool    `json:"is_admin"`
	IsActive bool    `json:"is_active"`
}

// DisplayName is the full name when the account has one, else the email.
func (u *User) DisplayName() string {
	if name := utils.Value(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// Error is a non-2xx backend response. Detail carries the backend-supplied
// message when one was present, else a generic fallback from the status.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// newError decodes a FastAPI-style {"detail": ...} body. Validation errors
// carry a structured detail, which is relayed as raw JSON text.
func newError(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode, Detail: http.StatusText(statusCode)}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		apiErr.Detail = message
	} else {
		apiErr.Detail = string(envelope.Detail)
	}
	return apiErr
}

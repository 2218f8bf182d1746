package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/dohahub/eduhub-edge/pricing"
)

// QuoteHandler computes a booking price quote for a teacher:
// GET /api/quote?teacher_id=3&session_type=online&duration_hours=1.5.
// The teacher's rates come from the backend; the arithmetic happens here
// so the booking form can show totals without a booking draft.
func (s *Server) QuoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, err := strconv.Atoi(r.URL.Query().Get("teacher_id"))
		if err != nil || teacherID <= 0 {
			writeError(w, http.StatusBadRequest, "teacher_id must be a positive integer")
			return
		}
		durationHours, err := strconv.ParseFloat(r.URL.Query().Get("duration_hours"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "duration_hours must be a number")
			return
		}
		sessionType := pricing.SessionType(r.URL.Query().Get("session_type"))

		var rates pricing.TeacherRates
		if err := s.fetchBackendJSON(r.Context(), fmt.Sprintf("/api/teachers/%d", teacherID), &rates); err != nil {
			var statusErr *backendStatusError
			if errors.As(err, &statusErr) {
				writeError(w, http.StatusNotFound, "teacher not found")
				return
			}
			s.log.Warn().Err(err).Int("teacher_id", teacherID).Msg("quote: teacher fetch failed")
			writeGatewayError(w, err)
			return
		}

		quote, err := pricing.NewQuote(rates, sessionType, durationHours)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}

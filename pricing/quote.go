// Package pricing computes tutoring-session price quotes: hourly rate,
// chosen by session type, multiplied by duration.
package pricing

import (
	"fmt"

	"github.com/pkg/errors"
)

type SessionType string

const (
	Online   SessionType = "online"
	InPerson SessionType = "in_person"
)

const Currency = "QAR"

var (
	ErrUnknownSessionType     = errors.New("unknown session type")
	ErrSessionTypeUnavailable = errors.New("teacher does not offer this session type")
	ErrInvalidDuration        = errors.New("duration must be a positive number of hours")
)

// TeacherRates is the pricing surface of a teacher profile.
type TeacherRates struct {
	HourlyRateOnline   float64 `json:"hourly_rate_online"`
	HourlyRateInPerson float64 `json:"hourly_rate_qatari"`
	TeachesOnline      bool    `json:"teaches_online"`
	TeachesInPerson    bool    `json:"teaches_in_person"`
}

type Quote struct {
	SessionType   SessionType `json:"session_type"`
	HourlyRate    float64     `json:"hourly_rate"`
	DurationHours float64     `json:"duration_hours"`
	Total         float64     `json:"total_amount"`
	Currency      string      `json:"currency"`
}

// NewQuote validates the requested session against the teacher's offering
// and returns the computed total.
func NewQuote(rates TeacherRates, sessionType SessionType, durationHours float64) (*Quote, error) {
	if durationHours <= 0 {
		return nil, ErrInvalidDuration
	}

	var rate float64
	switch sessionType {
	case Online:
		if !rates.TeachesOnline {
			return nil, ErrSessionTypeUnavailable
		}
		rate = rates.HourlyRateOnline
	case InPerson:
		if !rates.TeachesInPerson {
			return nil, ErrSessionTypeUnavailable
		}
		rate = rates.HourlyRateInPerson
	default:
		return nil, ErrUnknownSessionType
	}

	return &Quote{
		SessionType:   sessionType,
		HourlyRate:    rate,
		DurationHours: durationHours,
		Total:         rate * durationHours,
		Currency:      Currency,
	}, nil
}

// FormattedTotal renders the total the way the booking form displays it,
// e.g. "225.00 QAR".
func (q *Quote) FormattedTotal() string {
	return fmt.Sprintf("%.2f %s", q.Total, q.Currency)
}

// Package timeunit converts wall-clock intervals into minute durations.
// This is part of the Functional Core - no I/O, only pure functions.
package timeunit

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/horas/internal/apperr"
)

// DateLayout is the calendar date format used everywhere in the ledger.
const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// Span is a normalized interval.
type Span struct {
	Date    string // YYYY-MM-DD
	Start   string // HH:MM
	End     string // HH:MM
	Minutes int
	HHMM    string
}

// Normalizer validates dates against a single operating year.
type Normalizer struct {
	Year int
}

// NewNormalizer creates a normalizer bound to the operating year.
func NewNormalizer(year int) Normalizer {
	return Normalizer{Year: year}
}

// CheckDate parses date and verifies it falls in the operating year.
func (n Normalizer) CheckDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, apperr.Validation(apperr.ErrInvalidPeriod, "invalid date %q", date)
	}
	if d.Year() != n.Year {
		return time.Time{}, apperr.Validation(apperr.ErrInvalidPeriod, "date %s is outside %d", date, n.Year)
	}
	return d, nil
}

// Normalize validates the date and computes the duration between start and end.
func (n Normalizer) Normalize(date, start, end string) (Span, error) {
	d, err := n.CheckDate(date)
	if err != nil {
		return Span{}, err
	}

	startAt, err := parseClock(start)
	if err != nil {
		return Span{}, err
	}
	endAt, err := parseClock(end)
	if err != nil {
		return Span{}, err
	}

	minutes := int(endAt.Sub(startAt) / time.Minute)
	if minutes <= 0 {
		return Span{}, apperr.Validation(apperr.ErrInvalidTimeRange, "end %s must be after start %s", end, start)
	}

	return Span{
		Date:    d.Format(DateLayout),
		Start:   startAt.Format("15:04"),
		End:     endAt.Format("15:04"),
		Minutes: minutes,
		HHMM:    FormatHHMM(minutes),
	}, nil
}

func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, apperr.Validation(apperr.ErrInvalidTimeRange, "invalid time %q", s)
}

// FormatHHMM renders minutes as zero-padded hours and minutes.
// Hours are not capped at 24. Negative input renders as 00:00.
func FormatHHMM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseHHMM is the inverse of FormatHHMM.
func ParseHHMM(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return h*60 + m, nil
}

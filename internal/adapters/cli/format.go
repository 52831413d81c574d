package cli

import (
	"github.com/fatih/color"

	"github.com/example/horas/internal/core/delegation"
)

func header(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func failMark() string {
	return color.New(color.FgRed).Sprint("✗")
}

// statusBadge colours a delegation status label.
func statusBadge(status string) string {
	s, ok := delegation.ParseStatus(status)
	if !ok {
		return status
	}
	switch s {
	case delegation.StatusCompleted:
		return color.New(color.FgGreen).Sprint(s.Label())
	case delegation.StatusCancelled:
		return color.New(color.FgRed).Sprint(s.Label())
	default:
		return color.New(color.FgYellow).Sprint(s.Label())
	}
}

// Package delegation contains the pure business logic for delegation lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package delegation

import "strings"

// Status represents the possible states of a delegation.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// InitialStatus returns the status of a freshly created delegation.
func InitialStatus() Status {
	return StatusInProgress
}

// ParseStatus accepts the canonical values plus the labels used by the
// legacy screens ("Em Andamento", "Concluída", "Cancelada").
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_progress", "em andamento":
		return StatusInProgress, true
	case "completed", "concluída", "concluida":
		return StatusCompleted, true
	case "cancelled", "cancelada":
		return StatusCancelled, true
	}
	return "", false
}

// Label returns the human-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// allowed lists the legal targets for each source state.
// Re-submitting the current state is always accepted.
var allowed = map[Status][]Status{
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  nil,
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionResult captures the new status and the end date it implies.
type TransitionResult struct {
	NewStatus Status
	EndDate   *string // nil clears the column
}

// ApplyStatusTransition computes the end date for newStatus.
// Completed keeps the explicit end date when given, otherwise the latest
// linked entry date; an empty latest date yields no end date. Any other
// status clears the end date.
func ApplyStatusTransition(newStatus Status, explicitEndDate, latestEntryDate string) TransitionResult {
	result := TransitionResult{NewStatus: newStatus}
	if newStatus != StatusCompleted {
		return result
	}
	switch {
	case explicitEndDate != "":
		result.EndDate = &explicitEndDate
	case latestEntryDate != "":
		result.EndDate = &latestEntryDate
	}
	return result
}

// SplitRequisitions parses the comma-joined requisition column.
func SplitRequisitions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinRequisitions builds the stored form of a requisition list.
func JoinRequisitions(reqs []string) string {
	var clean []string
	for _, r := range reqs {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	return strings.Join(clean, ",")
}

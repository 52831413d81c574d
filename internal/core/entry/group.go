// Package entry contains the pure rules for time entries and their edit groups.
// This is part of the Functional Core - no I/O, only pure functions.
package entry

import (
	"sort"
	"strings"

	"github.com/example/horas/internal/apperr"
)

// GroupKey is the legacy sibling tuple used for rows without a batch id.
type GroupKey struct {
	OwnerID       int64
	Date          string
	WorkOrderCode string
	Activity      string
	Note          string
}

// Member is the minimal view of an existing group row.
type Member struct {
	ID    int64
	Start string
}

// SortMembers orders members by start time, then id.
func SortMembers(ms []Member) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Start != ms[j].Start {
			return ms[i].Start < ms[j].Start
		}
		return ms[i].ID < ms[j].ID
	})
}

// Plan is the set of mutations that turns the stored group into the submission.
type Plan struct {
	Update []int // indexes into the submitted rows carrying an existing id
	Insert []int // indexes into the submitted rows without id
	Delete []int64
}

// PlanReconcile compares the stored group ids with the ids carried by the
// submitted rows (0 = new row). Ids that do not belong to the group, or that
// appear twice, are rejected.
func PlanReconcile(groupIDs []int64, submitted []int64) (Plan, error) {
	if len(submitted) == 0 {
		return Plan{}, apperr.Validation(apperr.ErrEmptyEdit, "edit has no rows")
	}

	inGroup := make(map[int64]bool, len(groupIDs))
	for _, id := range groupIDs {
		inGroup[id] = true
	}

	var plan Plan
	var rowErrs []apperr.RowError
	kept := map[int64]bool{}
	for i, id := range submitted {
		switch {
		case id == 0:
			plan.Insert = append(plan.Insert, i)
		case !inGroup[id]:
			rowErrs = append(rowErrs, apperr.RowError{Row: i, Err: apperr.ErrForeignEntry})
		case kept[id]:
			rowErrs = append(rowErrs, apperr.RowError{Row: i, Err: apperr.ErrForeignEntry})
		default:
			kept[id] = true
			plan.Update = append(plan.Update, i)
		}
	}
	if len(rowErrs) > 0 {
		return Plan{}, apperr.RowsInvalid(rowErrs)
	}

	for _, id := range groupIDs {
		if !kept[id] {
			plan.Delete = append(plan.Delete, id)
		}
	}
	return plan, nil
}

// NormalizeNote trims a free-text note so that blank and missing compare equal.
func NormalizeNote(s string) string {
	return strings.TrimSpace(s)
}

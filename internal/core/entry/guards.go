package entry

import (
	"fmt"

	"github.com/example/horas/internal/apperr"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as a permission error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.Permission("%s", r.Reason)
}

// OwnershipContext provides context for owner-or-admin guards.
type OwnershipContext struct {
	EntryID        int64
	OwnerID        int64
	RequesterID    int64
	RequesterAdmin bool
}

// CanDeleteEntry evaluates whether the requester can delete an entry.
// Rule: admins delete anything, collaborators only their own entries.
func CanDeleteEntry(ctx OwnershipContext) GuardResult {
	if ctx.RequesterAdmin || ctx.OwnerID == ctx.RequesterID {
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("entry %d belongs to another collaborator", ctx.EntryID),
	}
}

// CanEditGroup evaluates whether the requester can open or reconcile an entry group.
// Rule: same as deletion, the group owner or an admin.
func CanEditGroup(ctx OwnershipContext) GuardResult {
	if ctx.RequesterAdmin || ctx.OwnerID == ctx.RequesterID {
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("entry group of %d belongs to another collaborator", ctx.EntryID),
	}
}

// DeleteCollaboratorContext provides context for collaborator deletion.
type DeleteCollaboratorContext struct {
	CollaboratorID int64
	EntryCount     int
}

// CanDeleteCollaborator evaluates whether a collaborator can be removed.
// Rule: collaborators with logged time entries are never deleted.
func CanDeleteCollaborator(ctx DeleteCollaboratorContext) error {
	if ctx.EntryCount > 0 {
		return apperr.Conflict(apperr.ErrHasEntries,
			"collaborator %d has %d time entries", ctx.CollaboratorID, ctx.EntryCount)
	}
	return nil
}

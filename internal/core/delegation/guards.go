package delegation

import (
	"fmt"

	"github.com/example/horas/internal/apperr"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	kind    error
	cause   error
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.New(r.kind, r.cause, "%s", r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(kind, cause error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...), kind: kind, cause: cause}
}

// StatusChangeContext provides what the status-change guard needs.
type StatusChangeContext struct {
	DelegationID   int64
	OwnerID        int64
	CurrentStatus  Status
	NewStatus      Status
	RequesterID    int64
	RequesterAdmin bool
}

// CanChangeStatus evaluates whether the requester can move the delegation to NewStatus.
// Rules:
//   - non-admins may only act on their own delegations
//   - non-admins may never cancel
//   - the lifecycle must allow CurrentStatus -> NewStatus
func CanChangeStatus(ctx StatusChangeContext) GuardResult {
	if !ctx.RequesterAdmin {
		if ctx.OwnerID != ctx.RequesterID {
			return deny(apperr.ErrPermission, apperr.ErrForbidden,
				"delegation %d belongs to another collaborator", ctx.DelegationID)
		}
		if ctx.NewStatus == StatusCancelled {
			return deny(apperr.ErrPermission, apperr.ErrForbidden,
				"only admins can cancel delegation %d", ctx.DelegationID)
		}
	}
	if !CanTransition(ctx.CurrentStatus, ctx.NewStatus) {
		return deny(apperr.ErrValidation, apperr.ErrInvalidTransition,
			"delegation %d cannot go from %s to %s", ctx.DelegationID, ctx.CurrentStatus, ctx.NewStatus)
	}
	return allow()
}

// CanLinkEntry evaluates whether a new time entry may reference the delegation.
// Rule: cancelled delegations accept no new entries.
func CanLinkEntry(delegationID int64, status Status) GuardResult {
	if status == StatusCancelled {
		return deny(apperr.ErrValidation, apperr.ErrDelegationCancelled,
			"delegation %d is cancelled and accepts no entries", delegationID)
	}
	return allow()
}

// CanView evaluates whether the requester may read a delegation and its entries.
func CanView(delegationID, ownerID, requesterID int64, requesterAdmin bool) GuardResult {
	if requesterAdmin || ownerID == requesterID {
		return allow()
	}
	return deny(apperr.ErrPermission, apperr.ErrForbidden, "delegation %d belongs to another collaborator", delegationID)
}

// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// Role values stored on collaborators.
const (
	RoleCommon = "common"
	RoleAdmin  = "admin"
)

// Requester identifies the collaborator on whose behalf an operation runs.
type Requester struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the requester holds the admin role.
func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// RequesterKey is the context key for the requester.
// Exported so it can be used consistently across packages.
type RequesterKey struct{}

// WithRequester returns a context with the requester embedded.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, RequesterKey{}, r)
}

// RequesterFromContext returns the requester from context and whether one was set.
func RequesterFromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(RequesterKey{}).(Requester)
	return r, ok
}

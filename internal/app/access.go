package app

import (
	"context"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ctxutil"
)

// requesterFrom returns the requester carried by ctx.
func requesterFrom(ctx context.Context) (ctxutil.Requester, error) {
	r, ok := ctxutil.RequesterFromContext(ctx)
	if !ok || r.ID == 0 {
		return ctxutil.Requester{}, apperr.Permission("no authenticated collaborator")
	}
	return r, nil
}

// requireAdmin returns the requester if it holds the admin role.
func requireAdmin(ctx context.Context) (ctxutil.Requester, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return r, err
	}
	if !r.IsAdmin() {
		return r, apperr.Permission("collaborator %d is not an admin", r.ID)
	}
	return r, nil
}

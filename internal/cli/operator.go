package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/wire"
)

// defaultLimit caps listings when --limit is not given.
const defaultLimit = 100

// operatorContext returns a context acting as the CLI operator: --as when
// given, otherwise the operator from config. The role is read from the store.
func operatorContext(cmd *cobra.Command) (context.Context, error) {
	id, _ := cmd.Flags().GetInt64("as")
	if id == 0 {
		id = wire.Config().Operator
	}
	if id == 0 {
		return nil, fmt.Errorf("no operator configured: run 'horas init' or pass --as")
	}

	lookup := ctxutil.WithRequester(cmd.Context(), ctxutil.Requester{ID: id, Role: ctxutil.RoleCommon})
	c, err := wire.CollaboratorService().GetCollaborator(lookup, id)
	if err != nil {
		return nil, fmt.Errorf("unknown operator %d: %w", id, err)
	}
	return ctxutil.WithRequester(cmd.Context(), ctxutil.Requester{ID: c.ID, Role: c.Role}), nil
}

// parseLimit reads a --limit value; "all" means no limit.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return defaultLimit, nil
	case strings.EqualFold(raw, "all"):
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q: use a positive number or \"all\"", raw)
	}
	return n, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

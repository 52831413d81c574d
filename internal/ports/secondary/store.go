package secondary

import "context"

// Transactor runs a unit of work inside one database transaction.
// Repositories called with the context passed to fn join that transaction.
// Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

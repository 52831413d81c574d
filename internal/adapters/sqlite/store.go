// Package sqlite contains the SQL implementations of the repository
// interfaces. SQLite is the default target; the same queries run on
// Postgres through pgx because every statement is rebound by sqlx.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

type txKey struct{}

// Store hands out the transaction-aware querier used by every repository.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewStore creates a store over an open connection.
func NewStore(db *sqlx.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log}
}

// WithinTx runs fn in a transaction carried by the context.
// A nested call joins the transaction already in ctx.
// Errors that carry no kind are reported as transaction failures.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Transaction(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", "error", rbErr)
		}
		if apperr.KindOf(err) == nil {
			return apperr.Transaction(err, "transaction rolled back")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Transaction(err, "failed to commit transaction")
	}
	return nil
}

// q returns the transaction in ctx, or the pool.
func (s *Store) q(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}

// insertID runs an INSERT ... RETURNING id statement.
func (s *Store) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	q := s.q(ctx)
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec runs a rebound statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) error {
	q := s.q(ctx)
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	q := s.q(ctx)
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

// isUniqueViolation recognizes unique-constraint failures of both drivers.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

// Ensure Store implements the interface.
var _ secondary.Transactor = (*Store)(nil)

package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/horas/internal/adapters/sqlite"
	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

func TestStore_WithinTx_CommitsOnSuccess(t *testing.T) {
	conn, store := setupTestDB(t)
	repo := sqlite.NewCollaboratorRepository(store)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &secondary.CollaboratorRecord{Name: "Ana", Login: "ana", PasswordHash: "h", Role: "common"})
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}
	if n := countRows(t, conn, "collaborators"); n != 1 {
		t.Errorf("expected 1 collaborator, got %d", n)
	}
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	conn, store := setupTestDB(t)
	repo := sqlite.NewCollaboratorRepository(store)
	ctx := context.Background()

	boom := apperr.Validation(apperr.ErrMissingField, "boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, &secondary.CollaboratorRecord{Name: "Ana", Login: "ana", PasswordHash: "h", Role: "common"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, apperr.ErrMissingField) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if n := countRows(t, conn, "collaborators"); n != 0 {
		t.Errorf("expected rollback, found %d collaborators", n)
	}
}

func TestStore_WithinTx_UnclassifiedErrorIsTransactionFailure(t *testing.T) {
	_, store := setupTestDB(t)

	err := store.WithinTx(context.Background(), func(ctx context.Context) error {
		return errors.New("disk on fire")
	})
	if !errors.Is(err, apperr.ErrTransaction) {
		t.Errorf("expected transaction failure, got %v", err)
	}
}

func TestStore_WithinTx_NestedJoinsOuter(t *testing.T) {
	conn, store := setupTestDB(t)
	repo := sqlite.NewCollaboratorRepository(store)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		inner := store.WithinTx(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, &secondary.CollaboratorRecord{Name: "Ana", Login: "ana", PasswordHash: "h", Role: "common"})
		})
		if inner != nil {
			return inner
		}
		return apperr.Validation(apperr.ErrMissingField, "abort outer")
	})
	if err == nil {
		t.Fatal("expected outer error")
	}
	if n := countRows(t, conn, "collaborators"); n != 0 {
		t.Errorf("inner work should roll back with the outer transaction, found %d rows", n)
	}
}

func TestStore_UniqueViolationIsConflict(t *testing.T) {
	_, store := setupTestDB(t)
	repo := sqlite.NewPlanItemRepository(store)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.PlanItemRecord{Code: "P-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, &secondary.PlanItemRecord{Code: "P-1"})
	if !errors.Is(err, apperr.ErrConflict) || !errors.Is(err, apperr.ErrDuplicateCode) {
		t.Errorf("expected duplicate-code conflict, got %v", err)
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// CollaboratorRepository implements secondary.CollaboratorRepository.
type CollaboratorRepository struct {
	s *Store
}

// NewCollaboratorRepository creates a new collaborator repository.
func NewCollaboratorRepository(s *Store) *CollaboratorRepository {
	return &CollaboratorRepository{s: s}
}

type collaboratorRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Login        string `db:"login"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	TotalMinutes int    `db:"total_minutes"`
}

const collaboratorColumns = "id, name, login, password_hash, role, 0 AS total_minutes FROM collaborators"

// Create persists a new collaborator.
func (r *CollaboratorRepository) Create(ctx context.Context, c *secondary.CollaboratorRecord) error {
	id, err := r.s.insertID(ctx,
		"INSERT INTO collaborators (name, login, password_hash, role) VALUES (?, ?, ?, ?)",
		c.Name, c.Login, c.PasswordHash, c.Role,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateLogin, "login %q already exists", c.Login)
	}
	if err != nil {
		return fmt.Errorf("failed to create collaborator: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CollaboratorRepository) getOne(ctx context.Context, where string, arg any, notFound string) (*secondary.CollaboratorRecord, error) {
	var row collaboratorRow
	err := r.s.get(ctx, &row, "SELECT "+collaboratorColumns+" WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("%s", notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	rec := secondary.CollaboratorRecord(row)
	return &rec, nil
}

// GetByID retrieves a collaborator by its ID.
func (r *CollaboratorRepository) GetByID(ctx context.Context, id int64) (*secondary.CollaboratorRecord, error) {
	return r.getOne(ctx, "id = ?", id, fmt.Sprintf("collaborator %d not found", id))
}

// GetByLogin retrieves a collaborator by login.
func (r *CollaboratorRepository) GetByLogin(ctx context.Context, login string) (*secondary.CollaboratorRecord, error) {
	return r.getOne(ctx, "login = ?", login, fmt.Sprintf("collaborator %q not found", login))
}

// GetByIDs returns the collaborators that exist among ids.
func (r *CollaboratorRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*secondary.CollaboratorRecord, error) {
	out := make(map[int64]*secondary.CollaboratorRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In("SELECT "+collaboratorColumns+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build collaborator query: %w", err)
	}
	var rows []collaboratorRow
	if err := r.s.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	for _, row := range rows {
		rec := secondary.CollaboratorRecord(row)
		out[rec.ID] = &rec
	}
	return out, nil
}

// Update rewrites name, login and role.
func (r *CollaboratorRepository) Update(ctx context.Context, c *secondary.CollaboratorRecord) error {
	n, err := r.s.exec(ctx, "UPDATE collaborators SET name = ?, login = ?, role = ? WHERE id = ?",
		c.Name, c.Login, c.Role, c.ID)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateLogin, "login %q already exists", c.Login)
	}
	if err != nil {
		return fmt.Errorf("failed to update collaborator: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("collaborator %d not found", c.ID)
	}
	return nil
}

// SetPassword replaces the password hash.
func (r *CollaboratorRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	n, err := r.s.exec(ctx, "UPDATE collaborators SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("collaborator %d not found", id)
	}
	return nil
}

// Delete removes a collaborator.
func (r *CollaboratorRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, "DELETE FROM collaborators WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete collaborator: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("collaborator %d not found", id)
	}
	return nil
}

// List returns every collaborator with its logged minutes, ordered by name.
func (r *CollaboratorRepository) List(ctx context.Context) ([]*secondary.CollaboratorRecord, error) {
	var rows []collaboratorRow
	err := r.s.selectAll(ctx, &rows, `
		SELECT c.id, c.name, c.login, c.password_hash, c.role,
		       COALESCE(SUM(e.duration_minutes), 0) AS total_minutes
		FROM collaborators c
		LEFT JOIN time_entries e ON e.collaborator_id = c.id
		GROUP BY c.id, c.name, c.login, c.password_hash, c.role
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	out := make([]*secondary.CollaboratorRecord, 0, len(rows))
	for _, row := range rows {
		rec := secondary.CollaboratorRecord(row)
		out = append(out, &rec)
	}
	return out, nil
}

// Ensure CollaboratorRepository implements the interface.
var _ secondary.CollaboratorRepository = (*CollaboratorRepository)(nil)

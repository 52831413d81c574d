package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/core/entry"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// CollaboratorServiceImpl implements the CollaboratorService interface.
type CollaboratorServiceImpl struct {
	tx               secondary.Transactor
	collaboratorRepo secondary.CollaboratorRepository
	entryRepo        secondary.EntryRepository
	delegationRepo   secondary.DelegationRepository
	derivedRepo      secondary.DerivedRecordRepository
	hashCost         int
	log              *slog.Logger
}

// NewCollaboratorService creates a new CollaboratorService with injected dependencies.
func NewCollaboratorService(
	tx secondary.Transactor,
	collaboratorRepo secondary.CollaboratorRepository,
	entryRepo secondary.EntryRepository,
	delegationRepo secondary.DelegationRepository,
	derivedRepo secondary.DerivedRecordRepository,
	log *slog.Logger,
) *CollaboratorServiceImpl {
	return &CollaboratorServiceImpl{
		tx:               tx,
		collaboratorRepo: collaboratorRepo,
		entryRepo:        entryRepo,
		delegationRepo:   delegationRepo,
		derivedRepo:      derivedRepo,
		hashCost:         bcrypt.DefaultCost,
		log:              log,
	}
}

// CreateCollaborator registers a collaborator with a hashed password.
func (s *CollaboratorServiceImpl) CreateCollaborator(ctx context.Context, req primary.CreateCollaboratorRequest) (*primary.Collaborator, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// BootstrapAdmin creates the first collaborator as an admin. It fails once
// any collaborator exists.
func (s *CollaboratorServiceImpl) BootstrapAdmin(ctx context.Context, req primary.CreateCollaboratorRequest) (*primary.Collaborator, error) {
	req.Role = ctxutil.RoleAdmin
	var created *primary.Collaborator
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.collaboratorRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperr.Conflict(apperr.ErrAlreadyInitialized, "%d collaborator(s) already registered", len(existing))
		}
		created, err = s.create(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CollaboratorServiceImpl) create(ctx context.Context, req primary.CreateCollaboratorRequest) (*primary.Collaborator, error) {
	name, login := strings.TrimSpace(req.Name), strings.TrimSpace(req.Login)
	if name == "" || login == "" || req.Password == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "name, login and password are required")
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec := &secondary.CollaboratorRecord{
		Name:         name,
		Login:        login,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.collaboratorRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info("collaborator created", "id", rec.ID, "login", rec.Login, "role", rec.Role)
	return recordToCollaborator(rec), nil
}

// Login checks credentials. Unknown logins and wrong passwords fail the same way.
func (s *CollaboratorServiceImpl) Login(ctx context.Context, login, password string) (*primary.Collaborator, error) {
	rec, err := s.collaboratorRepo.GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, badCredentials()
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login rejected", "login", rec.Login)
		return nil, badCredentials()
	}
	return recordToCollaborator(rec), nil
}

// GetCollaborator retrieves a collaborator by ID.
func (s *CollaboratorServiceImpl) GetCollaborator(ctx context.Context, id int64) (*primary.Collaborator, error) {
	if _, err := requesterFrom(ctx); err != nil {
		return nil, err
	}
	rec, err := s.collaboratorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToCollaborator(rec), nil
}

// ListCollaborators lists collaborators with their logged time.
func (s *CollaboratorServiceImpl) ListCollaborators(ctx context.Context) ([]*primary.Collaborator, error) {
	if _, err := requesterFrom(ctx); err != nil {
		return nil, err
	}
	records, err := s.collaboratorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	out := make([]*primary.Collaborator, len(records))
	for i, rec := range records {
		out[i] = recordToCollaborator(rec)
	}
	return out, nil
}

// UpdateCollaborator edits a collaborator. A rename is carried into the
// responsible names of derived records.
func (s *CollaboratorServiceImpl) UpdateCollaborator(ctx context.Context, req primary.UpdateCollaboratorRequest) (*primary.Collaborator, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name, login := strings.TrimSpace(req.Name), strings.TrimSpace(req.Login)
	if name == "" || login == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "name and login are required")
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}

	var updated *secondary.CollaboratorRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.collaboratorRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		updated = &secondary.CollaboratorRecord{
			ID:           current.ID,
			Name:         name,
			Login:        login,
			PasswordHash: current.PasswordHash,
			Role:         role,
		}
		if err := s.collaboratorRepo.Update(ctx, updated); err != nil {
			return err
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			if err := s.collaboratorRepo.SetPassword(ctx, current.ID, string(hash)); err != nil {
				return err
			}
			updated.PasswordHash = string(hash)
		}
		if current.Name != name {
			return s.derivedRepo.RenameResponsible(ctx, current.Name, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recordToCollaborator(updated), nil
}

// DeleteCollaborator removes a collaborator that has no time entries,
// together with its delegations and derived records.
func (s *CollaboratorServiceImpl) DeleteCollaborator(ctx context.Context, id int64) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.collaboratorRepo.GetByID(ctx, id); err != nil {
			return err
		}
		count, err := s.entryRepo.CountByCollaborator(ctx, id)
		if err != nil {
			return err
		}
		if err := entry.CanDeleteCollaborator(entry.DeleteCollaboratorContext{
			CollaboratorID: id,
			EntryCount:     count,
		}); err != nil {
			return err
		}

		if err := s.entryRepo.UnlinkDelegationsOf(ctx, id); err != nil {
			return err
		}
		if err := s.delegationRepo.DeleteByCollaborator(ctx, id); err != nil {
			return err
		}
		if err := s.derivedRepo.DeleteByCollaborator(ctx, id); err != nil {
			return err
		}
		if err := s.collaboratorRepo.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("collaborator deleted", "id", id)
		return nil
	})
}

func normalizeRole(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", ctxutil.RoleCommon:
		return ctxutil.RoleCommon, nil
	case ctxutil.RoleAdmin:
		return ctxutil.RoleAdmin, nil
	default:
		return "", apperr.Validation(apperr.ErrMissingField, "unknown role %q", role)
	}
}

func badCredentials() error {
	return apperr.New(apperr.ErrPermission, apperr.ErrBadCredentials, "invalid login or password")
}

func recordToCollaborator(r *secondary.CollaboratorRecord) *primary.Collaborator {
	return &primary.Collaborator{
		ID:           r.ID,
		Name:         r.Name,
		Login:        r.Login,
		Role:         r.Role,
		TotalMinutes: r.TotalMinutes,
		Total:        timeunit.FormatHHMM(r.TotalMinutes),
	}
}

// Ensure CollaboratorServiceImpl implements the interface
var _ primary.CollaboratorService = (*CollaboratorServiceImpl)(nil)

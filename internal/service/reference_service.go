package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReferenceService wraps admin CRUD over the lookup tables.
type ReferenceService struct {
	refs repository.ReferenceRepository
}

// NewReferenceService constructs the service.
func NewReferenceService(refs repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{refs: refs}
}

func (s *ReferenceService) Create(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	entry, err := s.refs.Create(ctx, kind, name)
	if err != nil {
		return nil, mapReferenceError(err, kind)
	}
	return entry, nil
}

func (s *ReferenceService) Rename(ctx context.Context, kind domain.ReferenceKind, id int64, name string) (*domain.ReferenceEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if err := s.refs.Rename(ctx, kind, id, name); err != nil {
		return nil, mapReferenceError(err, kind)
	}
	entry, err := s.refs.GetByID(ctx, kind, id)
	if err != nil {
		return nil, mapReferenceError(err, kind)
	}
	return entry, nil
}

func (s *ReferenceService) Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error {
	if err := s.refs.Delete(ctx, kind, id); err != nil {
		return mapReferenceError(err, kind)
	}
	return nil
}

func (s *ReferenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceEntry, error) {
	entries, err := s.refs.List(ctx, kind)
	if err != nil {
		return nil, mapReferenceError(err, kind)
	}
	return entries, nil
}

// CreateStatus adds a lifecycle status. At most one status may carry
// the terminal flag.
func (s *ReferenceService) CreateStatus(ctx context.Context, name string, terminal bool) (*domain.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if terminal {
		if err := s.rejectSecondTerminal(ctx, 0); err != nil {
			return nil, err
		}
	}

	status := &domain.Status{Name: name, Terminal: terminal}
	if err := s.refs.CreateStatus(ctx, status); err != nil {
		return nil, apperrors.NewPersistenceFailure("status insert", err)
	}
	return status, nil
}

func (s *ReferenceService) UpdateStatus(ctx context.Context, id int64, name string, terminal bool) (*domain.Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if terminal {
		if err := s.rejectSecondTerminal(ctx, id); err != nil {
			return nil, err
		}
	}

	status := &domain.Status{ID: id, Name: name, Terminal: terminal}
	if err := s.refs.UpdateStatus(ctx, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("status", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceFailure("status update", err)
	}
	return s.refs.GetStatus(ctx, id)
}

func (s *ReferenceService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.refs.ListStatuses(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}

func (s *ReferenceService) rejectSecondTerminal(ctx context.Context, allowID int64) error {
	existing, err := s.refs.TerminalStatusID(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing != allowID {
		return apperrors.NewConflict("a terminal status already exists", map[string]any{"status_id": existing})
	}
	return nil
}

func mapReferenceError(err error, kind domain.ReferenceKind) error {
	switch {
	case errors.Is(err, repository.ErrUnknownReferenceKind):
		return apperrors.NewValidationError("unknown reference kind", map[string]any{"kind": string(kind)})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound(string(kind), nil)
	default:
		return apperrors.MapError(err)
	}
}

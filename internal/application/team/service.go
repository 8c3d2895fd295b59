// Package team manages the directory data tasks refer to: positions, task types and workers.
package team

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rezkam/taskdesk/internal/application/permission"
	"github.com/rezkam/taskdesk/internal/domain"
)

// Service provides the team directory operations.
type Service struct {
	repo     Repository
	resolver *permission.Resolver
	now      func() time.Time
}

// NewService creates a team directory service.
func NewService(repo Repository, resolver *permission.Resolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePosition adds a position. Only managers may create positions.
func (s *Service) CreatePosition(ctx context.Context, actor domain.Actor, name string) (*domain.Position, error) {
	if err := s.requireManager(actor); err != nil {
		return nil, err
	}
	name, err := domain.NewLabelName(name)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.CreatePosition(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return p, nil
}

// ListPositions returns all positions ordered by name.
func (s *Service) ListPositions(ctx context.Context) ([]domain.Position, error) {
	positions, err := s.repo.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// CreateTaskType adds a task type. Only managers may create task types.
func (s *Service) CreateTaskType(ctx context.Context, actor domain.Actor, name string) (*domain.TaskType, error) {
	if err := s.requireManager(actor); err != nil {
		return nil, err
	}
	name, err := domain.NewLabelName(name)
	if err != nil {
		return nil, err
	}
	tt, err := s.repo.CreateTaskType(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return tt, nil
}

// ListTaskTypes returns all task types ordered by name.
func (s *Service) ListTaskTypes(ctx context.Context, actor domain.Actor) ([]domain.TaskType, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}
	types, err := s.repo.ListTaskTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return types, nil
}

// RegisterWorker creates a worker account. Open to anonymous callers (sign-up),
// so the account never carries elevated flags.
func (s *Service) RegisterWorker(ctx context.Context, params domain.RegisterWorkerParams) (*domain.Worker, error) {
	return s.ProvisionWorker(ctx, params, domain.WorkerRoles{})
}

// ProvisionWorker creates a worker account with the given role flags.
// Used by operator tooling; it is not reachable over HTTP.
func (s *Service) ProvisionWorker(ctx context.Context, params domain.RegisterWorkerParams, roles domain.WorkerRoles) (*domain.Worker, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		return nil, domain.ErrUsernameTooLong
	}

	email := strings.TrimSpace(params.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, domain.ErrInvalidEmail
	}

	first := strings.TrimSpace(params.FirstName)
	last := strings.TrimSpace(params.LastName)
	if first == "" || last == "" {
		return nil, domain.ErrPersonNameRequired
	}
	if utf8.RuneCountInString(first) > domain.MaxPersonNameLength || utf8.RuneCountInString(last) > domain.MaxPersonNameLength {
		return nil, domain.ErrNameTooLong
	}

	w := domain.Worker{
		Username:    username,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		IsSuperuser: roles.Superuser,
		IsStaff:     roles.Staff,
		IsActive:    true,
		DateJoined:  s.now(),
	}

	if params.PositionID != nil {
		ok, err := s.repo.PositionExists(ctx, *params.PositionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check position: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: position %d", domain.ErrInvalidReference, *params.PositionID)
		}
		w.Position = &domain.Position{ID: *params.PositionID}
	}

	created, err := s.repo.CreateWorker(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("failed to register worker: %w", err)
	}
	return created, nil
}

// ListWorkers returns all workers ordered by username.
func (s *Service) ListWorkers(ctx context.Context, actor domain.Actor) ([]domain.Worker, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// Me returns the worker behind the actor.
func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.Worker, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindWorkerByID(ctx, m.WorkerID)
}

func (s *Service) requireManager(actor domain.Actor) error {
	if !domain.IsAuthenticated(actor) {
		return domain.ErrUnauthenticated
	}
	if !s.resolver.IsManager(actor) {
		return domain.ErrForbidden
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/events"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

// Simulator runs an impact simulation for a stored project.
type Simulator interface {
	Simulate(ctx context.Context, id string) (*domain.ImpactResult, error)
}

// ProjectService is the entry point for presentation layers. It validates
// input, persists through the repository and delegates simulation to the engine.
type ProjectService struct {
	repo      repository.Repository
	simulator Simulator
	rules     validation.Rules
	events    events.Publisher
}

// Option configures a ProjectService.
type Option func(*ProjectService)

// WithPublisher sends lifecycle events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *ProjectService) {
		if p != nil {
			s.events = p
		}
	}
}

// NewProjectService creates a new project service
func NewProjectService(repo repository.Repository, simulator Simulator, rules validation.Rules, opts ...Option) *ProjectService {
	s := &ProjectService{
		repo:      repo,
		simulator: simulator,
		rules:     rules,
		events:    events.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init prepares the repository.
func (s *ProjectService) Init(ctx context.Context) error {
	return s.repo.Init(ctx)
}

// Create validates fields and stores the resulting project.
// Errors are *domain.ValidationError, domain.ErrDuplicateKey or *domain.StorageError.
func (s *ProjectService) Create(ctx context.Context, fields validation.Fields) (*domain.Project, error) {
	logger := logging.NewLogger(ctx)

	p, err := validation.Validate(fields, s.rules)
	if err != nil {
		logger.LogWarnf("create_project", "validation failed: %v", err)
		return nil, err
	}
	if err := s.repo.Create(ctx, *p); err != nil {
		if !errors.Is(err, domain.ErrDuplicateKey) {
			logger.LogError("create_project", err)
		}
		return nil, err
	}

	logger.LogInfof("create_project", "project %s created", p.ID)
	s.publish(ctx, events.New(ctx, events.ProjectCreated, p.ID, p))
	return p, nil
}

// List returns every stored project in stored order.
func (s *ProjectService) List(ctx context.Context) []domain.Project {
	return s.repo.ReadAll(ctx)
}

// Get returns the project with the given id.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, bool) {
	return s.repo.ReadByID(ctx, id)
}

// Update applies the known fields of changes to the project. Unknown keys and
// the id are ignored; a bad value for a known field is a *domain.ValidationError.
func (s *ProjectService) Update(ctx context.Context, id string, changes validation.Fields) (bool, error) {
	logger := logging.NewLogger(ctx)

	valid, err := validation.ValidateChanges(changes, s.rules)
	if err != nil {
		logger.LogWarnf("update_project", "validation failed for %s: %v", id, err)
		return false, err
	}

	ok, err := s.repo.Update(ctx, id, valid)
	if err != nil {
		logger.LogError("update_project", err)
		return false, err
	}
	if !ok {
		logger.LogWarnf("update_project", "could not update project %s", id)
		return false, nil
	}

	logger.LogInfof("update_project", "project %s updated", id)
	s.publish(ctx, events.New(ctx, events.ProjectUpdated, id, valid))
	return true, nil
}

// Delete removes the project with the given id.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	logger := logging.NewLogger(ctx)

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		logger.LogError("delete_project", err)
		return false, err
	}
	if !ok {
		logger.LogWarnf("delete_project", "could not delete project %s", id)
		return false, nil
	}

	logger.LogInfof("delete_project", "project %s deleted", id)
	s.publish(ctx, events.New(ctx, events.ProjectDeleted, id, nil))
	return true, nil
}

// Simulate computes the impact of the project. It reports false only when
// the project does not exist.
func (s *ProjectService) Simulate(ctx context.Context, id string) (*domain.ImpactResult, bool) {
	logger := logging.NewLogger(ctx)

	res, err := s.simulator.Simulate(ctx, id)
	if err != nil {
		logger.LogWarnf("simulate_project", "no project %s to simulate: %v", id, err)
		return nil, false
	}

	logger.LogInfof("simulate_project", "simulation completed for project %s, total risk %.1f%%", id, res.TotalRisk)
	s.publish(ctx, events.New(ctx, events.ProjectSimulated, id, res))
	return res, true
}

func (s *ProjectService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		logging.NewLogger(ctx).LogWarnf("publish_event", "failed to publish %s for %s: %v", e.Type, e.ProjectID, err)
	}
}

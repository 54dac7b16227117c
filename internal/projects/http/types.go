package http

import (
	"context"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

// ProjectService is what the handlers need from the project service.
type ProjectService interface {
	Create(ctx context.Context, fields validation.Fields) (*domain.Project, error)
	List(ctx context.Context) []domain.Project
	Get(ctx context.Context, id string) (*domain.Project, bool)
	Update(ctx context.Context, id string, changes validation.Fields) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Simulate(ctx context.Context, id string) (*domain.ImpactResult, bool)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc ProjectService
}

func New(svc ProjectService) *Handler {
	return &Handler{svc: svc}
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

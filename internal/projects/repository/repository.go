package repository

import (
	"context"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// Repository is the durable store of projects.
//
// Reads are best-effort: rows that cannot be decoded are skipped and a store
// that cannot be read at all yields an empty result. Mutations report failure
// through their error and never leave a partially written table behind.
type Repository interface {
	// Init prepares the backing store. It is idempotent.
	Init(ctx context.Context) error
	// Create stores a new project, failing with domain.ErrDuplicateKey if the id is taken.
	Create(ctx context.Context, p domain.Project) error
	// ReadAll returns every decodable project in stored order.
	ReadAll(ctx context.Context) []domain.Project
	// ReadByID returns the project with the given id.
	ReadByID(ctx context.Context, id string) (*domain.Project, bool)
	// Update replaces the known, non-id columns present in changes.
	Update(ctx context.Context, id string, changes map[string]string) (bool, error)
	// Delete removes the project with the given id.
	Delete(ctx context.Context, id string) (bool, error)
}

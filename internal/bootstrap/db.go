package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/storage/postgres"
)

// Store is the opened project repository with its health check and cleanup.
type Store struct {
	Repo    repository.Repository
	Backend string
	Ping    func(ctx context.Context) error
	Close   func() error
}

// OpenStore opens the repository selected by cfg.Store.Backend and initializes it.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	var st *Store
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		st = &Store{
			Repo:    repository.NewProjectRepository(db),
			Backend: config.StoreBackendPostgres,
			Ping:    db.PingContext,
			Close:   db.Close,
		}
	default:
		repo := repository.NewCSVRepository(cfg.Store.CSVPath, repository.WithDefaultIntensity(cfg.Impact.IntensityDefault))
		st = &Store{
			Repo:    repo,
			Backend: config.StoreBackendCSV,
			Ping:    func(ctx context.Context) error { return repo.Init(ctx) },
			Close:   func() error { return nil },
		}
	}

	if err := st.Repo.Init(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("store init: %w", err)
	}
	return st, nil
}

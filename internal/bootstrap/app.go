package bootstrap

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/events"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/advisory"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/engine"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/provider"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/scoring"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

// App is the assembled core shared by the API server and the CLI.
type App struct {
	Store     *Store
	Engine    *engine.Engine
	Service   *service.ProjectService
	Publisher events.Publisher
}

// NewApp opens the store, the optional event publisher and builds the engine
// and the project service from cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewLogger(ctx)

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.LogInfof("bootstrap", "project store ready (%s)", store.Backend)

	var pub events.Publisher = events.Noop{}
	if cfg.Redis.Addr != "" {
		client, err := events.Connect(ctx, cfg.Redis)
		if err != nil {
			// events are best effort; the core runs without them
			logger.LogWarnf("bootstrap", "event publishing disabled: %v", err)
		} else {
			pub = events.NewRedisPublisher(client, cfg.Redis.Channel)
			logger.LogInfof("bootstrap", "publishing events on %s", cfg.Redis.Channel)
		}
	}

	eng := engine.New(
		store.Repo,
		scoring.NewModel(),
		advisory.NewGenerator(cfg.Impact.AdvisoryThreshold),
		ProviderFactory(cfg),
		engine.WithCallTimeout(cfg.Provider.Timeout),
	)

	svc := service.NewProjectService(store.Repo, eng, validation.RulesFromConfig(cfg.Impact), service.WithPublisher(pub))

	return &App{Store: store, Engine: eng, Service: svc, Publisher: pub}, nil
}

// ProviderFactory builds the Gemini provider from cfg. A missing API key makes
// the provider unavailable.
func ProviderFactory(cfg *config.Config) engine.ProviderFactory {
	return func(context.Context) (provider.Provider, error) {
		c, err := provider.NewGeminiClient(cfg.Provider, provider.WithAdvisoryThreshold(cfg.Impact.AdvisoryThreshold))
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Close releases the publisher and the store.
func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.Store.Close())
}

// Package engine orchestrates a simulation: it looks the project up, asks the
// external provider when one is available and falls back to the deterministic
// model and generator for whatever the provider cannot deliver.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/provider"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// ProjectFinder looks up a stored project.
type ProjectFinder interface {
	ReadByID(ctx context.Context, id string) (*domain.Project, bool)
}

// Scorer is the deterministic scoring model.
type Scorer interface {
	Score(ctx context.Context, p domain.Project) domain.Scores
}

// Advisor is the deterministic recommendation generator.
type Advisor interface {
	Generate(s domain.Scores) map[domain.Category]string
}

// ProviderFactory builds the external provider. It is called at most once per Engine.
type ProviderFactory func(ctx context.Context) (provider.Provider, error)

// ProviderState is the memoized availability of the external provider.
type ProviderState int

const (
	StateUnknown ProviderState = iota
	StateAvailable
	StateUnavailable
)

func (s ProviderState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// resolution is the outcome of building the provider. It never changes once made.
type resolution struct {
	provider provider.Provider
	err      error
}

func (r resolution) state() ProviderState {
	if r.provider != nil {
		return StateAvailable
	}
	return StateUnavailable
}

// DefaultCallTimeout bounds each provider call.
const DefaultCallTimeout = 30 * time.Second

// Engine runs simulations.
type Engine struct {
	finder      ProjectFinder
	scorer      Scorer
	advisor     Advisor
	resolve     func() resolution
	resolved    atomic.Bool
	callTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithCallTimeout bounds each provider call. Expiry counts as a provider failure.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// New creates an engine. A nil factory leaves the provider permanently unavailable.
func New(finder ProjectFinder, scorer Scorer, advisor Advisor, factory ProviderFactory, opts ...Option) *Engine {
	e := &Engine{
		finder:      finder,
		scorer:      scorer,
		advisor:     advisor,
		callTimeout: DefaultCallTimeout,
	}
	e.resolve = sync.OnceValue(func() resolution {
		defer e.resolved.Store(true)
		return buildProvider(factory)
	})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func buildProvider(factory ProviderFactory) resolution {
	logger := logging.NewLogger(context.Background())
	if factory == nil {
		logger.LogInfof("resolve_provider", "no external provider configured, using deterministic model")
		return resolution{err: fmt.Errorf("no provider configured")}
	}

	p, err := factory(context.Background())
	if err == nil && p == nil {
		err = fmt.Errorf("provider factory returned nothing")
	}
	if err != nil {
		logger.LogWarnf("resolve_provider", "external provider unavailable: %v", err)
		return resolution{err: err}
	}
	logger.LogInfof("resolve_provider", "external provider initialized")
	return resolution{provider: p}
}

// State reports the provider availability without triggering resolution.
func (e *Engine) State() ProviderState {
	if !e.resolved.Load() {
		return StateUnknown
	}
	return e.resolve().state()
}

// Resolve builds the provider if that has not happened yet and reports the outcome.
func (e *Engine) Resolve() ProviderState {
	return e.resolve().state()
}

// Simulate computes the impact of the stored project id. The only error is
// domain.ErrNotFound; provider trouble always ends in a deterministic result.
func (e *Engine) Simulate(ctx context.Context, id string) (*domain.ImpactResult, error) {
	logger := logging.NewLogger(ctx)

	p, ok := e.finder.ReadByID(ctx, id)
	if !ok {
		logger.LogWarnf("simulate", "project not found: %s", id)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	logger.LogInfof("simulate", "starting simulation for project %s (%s)", p.ID, p.Type)
	logger.LogDebugf("simulate", "area=%gha duration=%dmonths intensity=%d", p.AreaHa, p.DurationMonths, p.Intensity)

	prov := e.resolve().provider

	result := &domain.ImpactResult{ProjectID: p.ID}
	result.Scores, result.ScoreSource = e.scores(ctx, prov, *p)
	result.Recommendations, result.AdvisorySource = e.advisories(ctx, prov, *p, result.Scores)

	logger.LogInfof("simulate", "simulation completed for %s: total risk %.1f%%, %d recommendations (scores: %s, advisories: %s)",
		p.ID, result.TotalRisk, len(result.Recommendations), result.ScoreSource, result.AdvisorySource)
	return result, nil
}

func (e *Engine) scores(ctx context.Context, prov provider.Provider, p domain.Project) (domain.Scores, domain.Source) {
	logger := logging.NewLogger(ctx)
	if prov != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		s, err := prov.Scores(callCtx, p)
		cancel()
		if err == nil {
			return s, domain.SourceProvider
		}
		logger.LogWarnf("simulate", "provider scores failed for %s, using model: %v", p.ID, err)
	}
	return e.scorer.Score(ctx, p), domain.SourceModel
}

func (e *Engine) advisories(ctx context.Context, prov provider.Provider, p domain.Project, s domain.Scores) (map[domain.Category]string, domain.Source) {
	logger := logging.NewLogger(ctx)
	if prov != nil {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		recs, err := prov.Advisories(callCtx, p, s)
		cancel()
		switch {
		case err != nil:
			logger.LogWarnf("simulate", "provider advisories failed for %s, using generator: %v", p.ID, err)
		case len(recs) == 0:
			logger.LogWarnf("simulate", "provider returned no advisories for %s, using generator", p.ID)
		default:
			return recs, domain.SourceProvider
		}
	}
	return e.advisor.Generate(s), domain.SourceModel
}

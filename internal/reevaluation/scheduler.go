// Package reevaluation periodically re-simulates every stored project and logs
// a risk summary.
package reevaluation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// DefaultHighRisk is the total risk from which a project counts as high risk.
const DefaultHighRisk = 50.0

// Service is the part of the project service a run needs.
type Service interface {
	List(ctx context.Context) []domain.Project
	Simulate(ctx context.Context, id string) (*domain.ImpactResult, bool)
}

// Summary describes one re-evaluation run.
type Summary struct {
	Projects  int
	Simulated int
	HighRisk  []string
	MaxRisk   float64
	MaxRiskID string
	Duration  time.Duration
}

type Scheduler struct {
	svc      Service
	spec     string
	highRisk float64
	cron     *cron.Cron
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithHighRisk sets the total risk from which a project is reported as high risk.
func WithHighRisk(v float64) Option {
	return func(s *Scheduler) { s.highRisk = v }
}

// NewScheduler creates a scheduler that runs on spec, a six-field cron
// expression with seconds or a descriptor such as "@hourly".
func NewScheduler(svc Service, spec string, opts ...Option) *Scheduler {
	s := &Scheduler{svc: svc, spec: spec, highRisk: DefaultHighRisk}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the cron task. Runs never overlap: a tick that fires while
// the previous run is still going is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		return errors.New("no re-evaluation schedule configured")
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}

	s.cron = c
	c.Start()
	logging.NewLogger(ctx).LogInfof("reevaluate", "re-evaluation scheduler started (%s)", s.spec)
	return nil
}

// Stop stops the scheduler. The returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}

// RunOnce simulates every stored project and logs the summary.
func (s *Scheduler) RunOnce(ctx context.Context) Summary {
	if logging.RequestID(ctx) == "" {
		ctx = logging.WithRequestID(ctx, "reevaluate-"+uuid.New().String())
	}
	logger := logging.NewLogger(ctx)
	start := time.Now()

	projects := s.svc.List(ctx)
	sum := Summary{Projects: len(projects)}
	for _, p := range projects {
		if ctx.Err() != nil {
			logger.LogWarnf("reevaluate", "re-evaluation interrupted after %d of %d projects", sum.Simulated, sum.Projects)
			break
		}
		res, ok := s.svc.Simulate(ctx, p.ID)
		if !ok {
			// deleted since List
			continue
		}
		sum.Simulated++
		if res.TotalRisk >= s.highRisk {
			sum.HighRisk = append(sum.HighRisk, p.ID)
		}
		if sum.MaxRiskID == "" || res.TotalRisk > sum.MaxRisk {
			sum.MaxRisk, sum.MaxRiskID = res.TotalRisk, p.ID
		}
	}
	sum.Duration = time.Since(start)

	logger.LogInfof("reevaluate", "re-evaluated %d/%d projects in %s, %d at or above %.0f%% risk, highest %s (%.1f%%)",
		sum.Simulated, sum.Projects, sum.Duration, len(sum.HighRisk), s.highRisk, sum.MaxRiskID, sum.MaxRisk)
	return sum
}

// cronLogger routes cron's own messages to the process logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l := logging.Base()
	l.Debug().Str("component", "cron").Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l := logging.Base()
	l.Error().Err(err).Str("component", "cron").Fields(keysAndValues).Msg(msg)
}

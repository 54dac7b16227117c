// Package scoring is the deterministic impact model used whenever the external
// provider is absent or fails.
package scoring

import (
	"context"
	"math"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// Factors are the per-category base factors of a project type, each in (0,1].
// Higher means less impact.
type Factors struct {
	Air          float64
	Water        float64
	Biodiversity float64
	Land         float64
}

// DefaultFactors are the base factors of the built-in project types.
var DefaultFactors = map[domain.ProjectType]Factors{
	domain.TypeConstruction: {Air: 0.85, Water: 0.90, Biodiversity: 0.80, Land: 0.75},
	domain.TypeMining:       {Air: 0.70, Water: 0.60, Biodiversity: 0.55, Land: 0.50},
	domain.TypeAgriculture:  {Air: 0.90, Water: 0.70, Biodiversity: 0.65, Land: 0.70},
}

// Breakdown is the model output together with its intermediate penalty factors.
type Breakdown struct {
	Scale      float64
	AreaFactor float64
	TimeFactor float64
	Scores     domain.Scores
}

// Model computes sub-scores from project attributes.
type Model struct {
	Factors  map[domain.ProjectType]Factors
	Fallback domain.ProjectType
}

// NewModel returns a model over DefaultFactors that treats unknown types as construction.
func NewModel() *Model {
	return &Model{Factors: DefaultFactors, Fallback: domain.TypeConstruction}
}

// Score implements the engine's scorer contract.
func (m *Model) Score(ctx context.Context, p domain.Project) domain.Scores {
	return m.evaluate(ctx, p).Scores
}

// Evaluate runs the model on p.
func (m *Model) Evaluate(p domain.Project) Breakdown {
	return m.evaluate(context.Background(), p)
}

func (m *Model) evaluate(ctx context.Context, p domain.Project) Breakdown {
	f, ok := m.Factors[p.Type]
	if !ok {
		logging.NewLogger(ctx).LogWarnf("score_project", "unknown project type %q, assuming %s", p.Type, m.Fallback)
		f = m.Factors[m.Fallback]
	}

	b := Breakdown{
		Scale:      1 + float64(p.Intensity-5)*0.08,
		AreaFactor: 1 + math.Log10(math.Max(p.AreaHa, 1))*0.1,
		TimeFactor: 1 + (float64(p.DurationMonths)/12)*0.05,
	}
	penalty := b.Scale * b.AreaFactor * b.TimeFactor

	s := domain.Scores{
		Air:          clip(100 * f.Air / penalty),
		Water:        clip(100 * f.Water / penalty),
		Biodiversity: clip(100 * f.Biodiversity / penalty),
		Land:         clip(100 * f.Land / penalty),
	}
	s.TotalRisk = clip(100 - (0.25*s.Air + 0.25*s.Water + 0.25*s.Biodiversity + 0.25*s.Land))
	b.Scores = s

	logging.NewLogger(ctx).LogDebugf("score_project", "factors scale=%.2f area=%.2f time=%.2f", b.Scale, b.AreaFactor, b.TimeFactor)
	return b
}

// clip bounds x to [0,100].
func clip(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}

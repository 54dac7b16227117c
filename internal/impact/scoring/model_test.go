package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

func project(t domain.ProjectType, area float64, months, intensity int) domain.Project {
	return domain.Project{ID: "T1", Name: "test", Type: t, AreaHa: area, DurationMonths: months, Intensity: intensity}
}

func TestEvaluate_ReferenceScenario(t *testing.T) {
	b := NewModel().Evaluate(project(domain.TypeConstruction, 1.0, 6, 5))

	assert.Equal(t, 1.0, b.Scale)
	assert.Equal(t, 1.0, b.AreaFactor)
	assert.InDelta(t, 1.025, b.TimeFactor, 1e-12)

	assert.InEpsilon(t, 85/1.025, b.Scores.Air, 1e-6)
	assert.InEpsilon(t, 90/1.025, b.Scores.Water, 1e-6)
	assert.InEpsilon(t, 80/1.025, b.Scores.Biodiversity, 1e-6)
	assert.InEpsilon(t, 75/1.025, b.Scores.Land, 1e-6)
	assert.InDelta(t, 82.93, b.Scores.Air, 0.005)
	assert.InEpsilon(t, 100-82.5/1.025, b.Scores.TotalRisk, 1e-6)
}

func TestEvaluate_TotalRiskIsInvertedAverage(t *testing.T) {
	m := NewModel()
	for _, typ := range []domain.ProjectType{domain.TypeConstruction, domain.TypeMining, domain.TypeAgriculture} {
		for _, area := range []float64{0.01, 1, 37.5, 5000} {
			s := m.Evaluate(project(typ, area, 18, 7)).Scores
			avg := (s.Air + s.Water + s.Biodiversity + s.Land) / 4
			assert.InDelta(t, 100-avg, s.TotalRisk, 1e-9)
		}
	}
}

func TestEvaluate_MonotonicInIntensity(t *testing.T) {
	m := NewModel()
	prev := m.Evaluate(project(domain.TypeMining, 25, 24, 1))
	for i := 2; i <= 10; i++ {
		cur := m.Evaluate(project(domain.TypeMining, 25, 24, i))
		assert.Greater(t, cur.Scale, prev.Scale)
		for _, c := range domain.Categories {
			assert.LessOrEqual(t, cur.Scores.Of(c), prev.Scores.Of(c), "intensity %d, %s", i, c)
		}
		prev = cur
	}
}

func TestEvaluate_SmallAreaHasNoPenalty(t *testing.T) {
	m := NewModel()
	assert.Equal(t, 1.0, m.Evaluate(project(domain.TypeAgriculture, 0.5, 12, 5)).AreaFactor)
	assert.InDelta(t, 1.1, m.Evaluate(project(domain.TypeAgriculture, 10, 12, 5)).AreaFactor, 1e-12)
}

func TestEvaluate_ScoresAreClipped(t *testing.T) {
	// low intensity on a tiny, short project pushes raw scores above 100
	s := NewModel().Evaluate(project(domain.TypeAgriculture, 1, 1, 1)).Scores
	assert.Equal(t, 100.0, s.Air)
	for _, c := range domain.Categories {
		assert.GreaterOrEqual(t, s.Of(c), 0.0)
		assert.LessOrEqual(t, s.Of(c), 100.0)
	}
	assert.GreaterOrEqual(t, s.TotalRisk, 0.0)
}

func TestEvaluate_UnknownTypeUsesFallback(t *testing.T) {
	m := NewModel()
	want := m.Evaluate(project(domain.TypeConstruction, 3, 9, 6)).Scores
	got := m.Evaluate(project("quarrying", 3, 9, 6)).Scores
	assert.Equal(t, want, got)
}

func TestScore(t *testing.T) {
	m := NewModel()
	p := project(domain.TypeMining, 120, 48, 9)
	s := m.Score(context.Background(), p)
	require.Equal(t, m.Evaluate(p).Scores, s)
	assert.Less(t, s.Land, 70.0)
}

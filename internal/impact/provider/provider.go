// Package provider talks to the optional external estimator that can replace the
// deterministic model with generated scores and recommendations.
//
// The estimator answers in plain text, one `LABEL: value` pair per line. Scores
// and advisories are requested separately and either may fail on its own.
package provider

import (
	"context"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// Provider is an external impact estimator.
type Provider interface {
	// Scores returns all five scores or an error. Partial answers are errors.
	Scores(ctx context.Context, p domain.Project) (domain.Scores, error)
	// Advisories returns recommendations for any subset of the categories.
	Advisories(ctx context.Context, p domain.Project, s domain.Scores) (map[domain.Category]string, error)
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

func (rc *runContext) print(v any, text func() string) error {
	switch rc.format {
	case "json":
		enc := json.NewEncoder(rc.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(rc.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(rc.out, text())
		return err
	}
}

func projectLine(p domain.Project) string {
	line := fmt.Sprintf("%s  %s  [%s]  %g ha  %d months  intensity %d", p.ID, p.Name, p.Type, p.AreaHa, p.DurationMonths, p.Intensity)
	if p.Location != "" {
		line += "  @ " + p.Location
	}
	return line
}

var categoryTitles = map[domain.Category]string{
	domain.CategoryAir:          "Air quality",
	domain.CategoryWater:        "Water quality",
	domain.CategoryBiodiversity: "Biodiversity",
	domain.CategoryLand:         "Land use",
}

func impactText(r *domain.ImpactResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Impact of %s (scores: %s, recommendations: %s)\n", r.ProjectID, r.ScoreSource, r.AdvisorySource)
	for _, c := range domain.Categories {
		fmt.Fprintf(&b, "  %-14s %6.1f\n", categoryTitles[c], r.Of(c))
	}
	fmt.Fprintf(&b, "  %-14s %5.1f%%\n", "Total risk", r.TotalRisk)

	if len(r.Recommendations) == 0 {
		b.WriteString("\nNo recommendations.")
		return b.String()
	}
	b.WriteString("\nRecommendations:")
	for _, c := range domain.Categories {
		if rec, ok := r.Recommendations[c]; ok {
			fmt.Fprintf(&b, "\n- %s: %s", categoryTitles[c], rec)
		}
	}
	return b.String()
}

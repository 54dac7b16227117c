package provider

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// ErrIncompleteScores is returned when a score response lacks a required label.
var ErrIncompleteScores = errors.New("incomplete score response")

// Score labels, in the order the prompt asks for them.
const (
	LabelAirQuality   = "AIR_QUALITY"
	LabelWaterQuality = "WATER_QUALITY"
	LabelBiodiversity = "BIODIVERSITY"
	LabelLandUse      = "LAND_USE"
	LabelTotalRisk    = "TOTAL_RISK"
)

var scoreFields = []struct {
	label string
	set   func(*domain.Scores, float64)
}{
	{LabelAirQuality, func(s *domain.Scores, v float64) { s.Air = v }},
	{LabelWaterQuality, func(s *domain.Scores, v float64) { s.Water = v }},
	{LabelBiodiversity, func(s *domain.Scores, v float64) { s.Biodiversity = v }},
	{LabelLandUse, func(s *domain.Scores, v float64) { s.Land = v }},
	{LabelTotalRisk, func(s *domain.Scores, v float64) { s.TotalRisk = v }},
}

// advisoryLabels maps the advisory line labels to their categories.
var advisoryLabels = []struct {
	label    string
	category domain.Category
}{
	{"AIR", domain.CategoryAir},
	{"WATER", domain.CategoryWater},
	{"BIODIVERSITY", domain.CategoryBiodiversity},
	{"LAND", domain.CategoryLand},
}

// ParseScores extracts the five scores from a score response. Labels match
// case-insensitively at the start of a line and must be followed by a colon;
// the value is the text after that colon with everything but digits and dots removed, clipped to [0,100].
// A response missing any label is rejected as a whole.
func ParseScores(text string) (domain.Scores, error) {
	var s domain.Scores
	seen := make(map[string]bool, len(scoreFields))

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, f := range scoreFields {
			raw, ok := labelValue(line, f.label)
			if !ok {
				continue
			}
			if v, ok := scoreValue(raw); ok {
				f.set(&s, v)
				seen[f.label] = true
			}
			break
		}
	}

	var missing []string
	for _, f := range scoreFields {
		if !seen[f.label] {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		return domain.Scores{}, fmt.Errorf("%w: missing %s", ErrIncompleteScores, strings.Join(missing, ", "))
	}
	return s, nil
}

func scoreValue(raw string) (float64, bool) {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return math.Max(0, math.Min(100, v)), true
}

// ParseAdvisories extracts recommendations from an advisory response. A line
// counts when it starts with a category label followed by a colon and has
// non-empty text after it. Unparseable input yields an empty map.
func ParseAdvisories(text string) map[domain.Category]string {
	out := make(map[domain.Category]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, a := range advisoryLabels {
			raw, ok := labelValue(line, a.label)
			if !ok {
				continue
			}
			if rec := strings.TrimSpace(raw); rec != "" {
				out[a.category] = rec
			}
			break
		}
	}
	return out
}

// labelValue returns the text after "label:" when line starts with label,
// ignoring case. Blanks may sit between the label and the colon.
func labelValue(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	rest := strings.TrimLeft(line[len(label):], " \t")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return rest[1:], true
}

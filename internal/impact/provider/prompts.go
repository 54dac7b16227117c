package provider

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// ScoresPrompt asks for the five scores of p in the line format ParseScores reads.
func ScoresPrompt(p domain.Project) string {
	var b strings.Builder
	b.WriteString("You are an environmental impact analyst with deep experience assessing construction, mining and agriculture projects.\n\n")
	b.WriteString("PROJECT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Type: %s\n", p.Type)
	fmt.Fprintf(&b, "- Area: %g hectares\n", p.AreaHa)
	fmt.Fprintf(&b, "- Duration: %d months\n", p.DurationMonths)
	fmt.Fprintf(&b, "- Impact intensity: %d/10\n", p.Intensity)
	if p.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	}
	b.WriteString(`
TASK:
Score the following environmental metrics from 0 to 100, where 100 is optimal (minimal impact)
and 0 is worst (maximum impact). Consider the project type, the affected area, the duration,
the operating intensity (1 very low, 10 very high) and typical environmental standards.

REQUIRED RESPONSE FORMAT (decimal numbers):
AIR_QUALITY: [0-100]
WATER_QUALITY: [0-100]
BIODIVERSITY: [0-100]
LAND_USE: [0-100]
TOTAL_RISK: [0-100]

REFERENCE EXAMPLES:
- Small construction (1 ha, 6 months, intensity 3): air 85, water 88, biodiversity 82, land 80, risk 17
- Large mine (100 ha, 48 months, intensity 9): air 35, water 28, biodiversity 25, land 22, risk 72
- Medium farm (20 ha, 36 months, intensity 4): air 80, water 70, biodiversity 68, land 72, risk 25

Answer ONLY with the numbers in the format above. Do not add explanations.`)
	return b.String()
}

// AdvisoriesPrompt asks for recommendations for the categories of s below threshold,
// in the line format ParseAdvisories reads.
func AdvisoriesPrompt(p domain.Project, s domain.Scores, threshold float64) string {
	var b strings.Builder
	b.WriteString("You are a certified environmental consultant. Analyse the project below and give detailed, technical, specific recommendations to mitigate its environmental impact.\n\n")
	b.WriteString("PROJECT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Type: %s\n", p.Type)
	fmt.Fprintf(&b, "- Area: %g hectares\n", p.AreaHa)
	fmt.Fprintf(&b, "- Duration: %d months\n", p.DurationMonths)
	fmt.Fprintf(&b, "- Impact intensity: %d/10\n\n", p.Intensity)
	b.WriteString("SCORES (0-100, 100 is optimal):\n")
	fmt.Fprintf(&b, "- Air quality: %.1f\n", s.Air)
	fmt.Fprintf(&b, "- Water quality: %.1f\n", s.Water)
	fmt.Fprintf(&b, "- Biodiversity: %.1f\n", s.Biodiversity)
	fmt.Fprintf(&b, "- Land use: %.1f\n", s.Land)
	fmt.Fprintf(&b, "- Total risk: %.1f%%\n\n", s.TotalRisk)
	fmt.Fprintf(&b, `INSTRUCTIONS:
Give recommendations ONLY for metrics scoring below %[1]g. For each one give ONE detailed
recommendation on a single line that includes quantified technical measures, concrete
technologies or methods, applicable environmental regulations, an implementation schedule
and measurable success indicators.

Use EXACTLY this format, one line per category:
AIR: [recommendation if air < %[1]g]
WATER: [recommendation if water < %[1]g]
BIODIVERSITY: [recommendation if biodiversity < %[1]g]
LAND: [recommendation if land < %[1]g]

Omit any category scoring %[1]g or above. Recommendations must apply specifically to %[2]s projects.`, threshold, p.Type)
	return b.String()
}

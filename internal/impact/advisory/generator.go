// Package advisory produces fixed mitigation recommendations for weak sub-scores.
package advisory

import (
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// DefaultThreshold is the score below which a category gets a recommendation.
const DefaultThreshold = 70.0

// Recommendations holds the static text for each category.
var Recommendations = map[domain.Category]string{
	domain.CategoryAir: "Control particulate matter by spraying fine water mist every 4 hours over earthworks and unpaved roads. " +
		"Plant dense perimeter vegetation barriers at least 3 m tall and monitor PM10 and PM2.5 quarterly against the local ambient air quality standard. " +
		"Limit internal traffic to 20 km/h and cover loose material in transit with waterproof tarpaulins.",
	domain.CategoryWater: "Build a three-stage primary sedimentation system (grit chamber, settling tank and gravel filter) with 48 hours of retention capacity. " +
		"Install a modular treatment plant for domestic and industrial wastewater under an ISO 14001:2015 management system, with monthly physicochemical analysis of BOD, COD, TSS, pH and heavy metals. " +
		"Establish a discharge management programme that reuses 60% of treated water for road dust control and green areas.",
	domain.CategoryBiodiversity: "Prepare a Biodiversity Management Plan with a full flora and fauna inventory of the direct and indirect area of influence. " +
		"Run a species rescue and relocation programme under a protocol approved by the environmental authority, prioritising endemic species and those listed as threatened on the IUCN Red List. " +
		"Create three biological corridors at least 50 m wide planted with native species, install 20 bird nest boxes and shelters for small mammals, and monitor twice a year with camera traps and transects.",
	domain.CategoryLand: "Stabilise slopes geotechnically at a maximum gradient of 2:1 (H:V) using high-strength biaxial geogrids and subsurface drainage. " +
		"Revegetate immediately by hydroseeding a mix of native grasses (70%) and nitrogen-fixing legumes (30%) at 35 g/m². " +
		"Build infiltration terraces every 5 m of elevation change with crest ditches, and analyse soil stability every 6 months during operation.",
}

// Generator emits a recommendation for every category scoring strictly below Threshold.
type Generator struct {
	Threshold float64
}

// NewGenerator returns a generator with the given threshold.
func NewGenerator(threshold float64) *Generator {
	return &Generator{Threshold: threshold}
}

// Generate returns the recommendations for the weak categories of s.
func (g *Generator) Generate(s domain.Scores) map[domain.Category]string {
	out := make(map[domain.Category]string)
	for _, c := range domain.Categories {
		if s.Of(c) < g.Threshold {
			out[c] = Recommendations[c]
		}
	}
	return out
}

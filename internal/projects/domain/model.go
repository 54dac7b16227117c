package domain

// ProjectType is the kind of works a project carries out.
type ProjectType string

const (
	TypeConstruction ProjectType = "construction"
	TypeMining       ProjectType = "mining"
	TypeAgriculture  ProjectType = "agriculture"
)

// Project represents a proposed project whose environmental impact is evaluated.
// It is intentionally storage-agnostic and used across repository, service and HTTP layers.
type Project struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	Type           ProjectType `json:"type" yaml:"type"`
	AreaHa         float64     `json:"area_ha" yaml:"area_ha"`
	DurationMonths int         `json:"duration_months" yaml:"duration_months"`
	Location       string      `json:"location" yaml:"location"`
	Intensity      int         `json:"intensity" yaml:"intensity"`
}

// Column names of a stored project, in persisted order.
const (
	ColumnID             = "id"
	ColumnName           = "name"
	ColumnType           = "type"
	ColumnAreaHa         = "area_ha"
	ColumnDurationMonths = "duration_months"
	ColumnLocation       = "location"
	ColumnIntensity      = "intensity"
)

// Columns is the fixed column order of the project table.
var Columns = []string{
	ColumnID,
	ColumnName,
	ColumnType,
	ColumnAreaHa,
	ColumnDurationMonths,
	ColumnLocation,
	ColumnIntensity,
}

// Category is one of the four environmental dimensions that are scored.
type Category string

const (
	CategoryAir          Category = "air"
	CategoryWater        Category = "water"
	CategoryBiodiversity Category = "biodiversity"
	CategoryLand         Category = "land"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryAir, CategoryWater, CategoryBiodiversity, CategoryLand}

// Scores holds the four sub-scores (0-100, 100 = best) and the aggregate risk (0-100, 100 = worst).
type Scores struct {
	Air          float64 `json:"air" yaml:"air"`
	Water        float64 `json:"water" yaml:"water"`
	Biodiversity float64 `json:"biodiversity" yaml:"biodiversity"`
	Land         float64 `json:"land" yaml:"land"`
	TotalRisk    float64 `json:"total_risk" yaml:"total_risk"`
}

// Of returns the sub-score of a category.
func (s Scores) Of(c Category) float64 {
	switch c {
	case CategoryAir:
		return s.Air
	case CategoryWater:
		return s.Water
	case CategoryBiodiversity:
		return s.Biodiversity
	case CategoryLand:
		return s.Land
	default:
		return 0
	}
}

// Source tells where part of an impact result came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceModel    Source = "model"
)

// ImpactResult is the outcome of one simulation. It is derived on demand and never stored.
type ImpactResult struct {
	ProjectID       string              `json:"project_id" yaml:"project_id"`
	Scores          `yaml:",inline"`
	Recommendations map[Category]string `json:"recommendations" yaml:"recommendations"`
	ScoreSource     Source              `json:"score_source" yaml:"score_source"`
	AdvisorySource  Source              `json:"advisory_source" yaml:"advisory_source"`
}

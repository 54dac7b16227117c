package validation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

func testRules() Rules {
	return RulesFromConfig(config.ImpactConfig{
		ProjectTypes:      []string{"construction", "mining", "agriculture"},
		IntensityMin:      1,
		IntensityMax:      10,
		IntensityDefault:  5,
		AreaMinHa:         0.01,
		DurationMinMonths: 1,
	})
}

func validFields() Fields {
	return Fields{
		"id":              "T1",
		"name":            "Bridge",
		"type":            "construction",
		"area_ha":         "1.0",
		"duration_months": "6",
		"location":        "Lima",
		"intensity":       "5",
	}
}

func requireValidationError(t *testing.T, err error, field string) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, field, ve.Field)
	return ve
}

func TestValidate_Valid(t *testing.T) {
	p, err := Validate(validFields(), testRules())
	require.NoError(t, err)

	assert.Equal(t, &domain.Project{
		ID:             "T1",
		Name:           "Bridge",
		Type:           domain.TypeConstruction,
		AreaHa:         1.0,
		DurationMonths: 6,
		Location:       "Lima",
		Intensity:      5,
	}, p)
}

func TestValidate_TypedValues(t *testing.T) {
	f := Fields{
		"id":              "  M1 ",
		"name":            "Open pit",
		"type":            "Mining",
		"area_ha":         json.Number("120.5"),
		"duration_months": float64(48),
		"intensity":       9,
	}
	p, err := Validate(f, testRules())
	require.NoError(t, err)
	assert.Equal(t, "M1", p.ID)
	assert.Equal(t, domain.TypeMining, p.Type)
	assert.Equal(t, 120.5, p.AreaHa)
	assert.Equal(t, 48, p.DurationMonths)
	assert.Equal(t, 9, p.Intensity)
	assert.Equal(t, "", p.Location)
}

func TestValidate_DefaultIntensity(t *testing.T) {
	for _, v := range []any{nil, "", "   "} {
		f := validFields()
		if v == nil {
			delete(f, "intensity")
		} else {
			f["intensity"] = v
		}
		p, err := Validate(f, testRules())
		require.NoError(t, err)
		assert.Equal(t, 5, p.Intensity)
	}
}

func TestValidate_RuleOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f Fields)
		field   string
		message string
	}{
		{"missing id", func(f Fields) { delete(f, "id") }, "id", "id must not be empty"},
		{"blank id wins over blank name", func(f Fields) { f["id"] = "  "; f["name"] = "" }, "id", "id must not be empty"},
		{"blank name", func(f Fields) { f["name"] = "\t" }, "name", "name must not be empty"},
		{"unknown type", func(f Fields) { f["type"] = "fishing" }, "type",
			"invalid project type, must be one of: construction, mining, agriculture"},
		{"type checked before area", func(f Fields) { f["type"] = ""; f["area_ha"] = "x" }, "type",
			"invalid project type, must be one of: construction, mining, agriculture"},
		{"area not a number", func(f Fields) { f["area_ha"] = "ten" }, "area_ha", "area_ha must be a valid number"},
		{"area NaN", func(f Fields) { f["area_ha"] = "NaN" }, "area_ha", "area_ha must be a valid number"},
		{"area infinite", func(f Fields) { f["area_ha"] = math.Inf(1) }, "area_ha", "area_ha must be a valid number"},
		{"area below minimum", func(f Fields) { f["area_ha"] = "0.001" }, "area_ha", "area_ha must be at least 0.01 hectares"},
		{"duration not an integer", func(f Fields) { f["duration_months"] = "6.5" }, "duration_months",
			"duration_months must be a valid integer"},
		{"duration fractional float", func(f Fields) { f["duration_months"] = 6.5 }, "duration_months",
			"duration_months must be a valid integer"},
		{"duration below minimum", func(f Fields) { f["duration_months"] = "0" }, "duration_months",
			"duration_months must be at least 1 month(s)"},
		{"intensity not an integer", func(f Fields) { f["intensity"] = "high" }, "intensity",
			"intensity must be a valid integer"},
		{"intensity below range", func(f Fields) { f["intensity"] = "0" }, "intensity", "intensity must be between 1 and 10"},
		{"intensity above range", func(f Fields) { f["intensity"] = 11 }, "intensity", "intensity must be between 1 and 10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mutate(f)
			p, err := Validate(f, testRules())
			assert.Nil(t, p)
			ve := requireValidationError(t, err, tc.field)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

func TestValidate_BoundsAreInclusive(t *testing.T) {
	f := validFields()
	f["area_ha"] = "0.01"
	f["duration_months"] = "1"
	f["intensity"] = "10"
	_, err := Validate(f, testRules())
	require.NoError(t, err)

	f["intensity"] = "1"
	_, err = Validate(f, testRules())
	require.NoError(t, err)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	f := validFields()
	delete(f, "intensity")
	_, err := Validate(f, testRules())
	require.NoError(t, err)
	_, ok := f["intensity"]
	assert.False(t, ok)
}

func TestValidateChanges(t *testing.T) {
	changes, err := ValidateChanges(Fields{
		"id":        "HIJACK",
		"colour":    "green",
		"name":      " Renamed ",
		"area_ha":   2.50,
		"intensity": "7",
		"location":  "Cusco",
	}, testRules())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":      "Renamed",
		"area_ha":   "2.5",
		"intensity": "7",
		"location":  "Cusco",
	}, changes)
}

func TestValidateChanges_RejectsBadKnownField(t *testing.T) {
	_, err := ValidateChanges(Fields{"duration_months": "soon"}, testRules())
	requireValidationError(t, err, "duration_months")

	_, err = ValidateChanges(Fields{"type": "fishing"}, testRules())
	requireValidationError(t, err, "type")

	_, err = ValidateChanges(Fields{"name": ""}, testRules())
	requireValidationError(t, err, "name")
}

func TestValidateChanges_OnlyUnknownKeys(t *testing.T) {
	changes, err := ValidateChanges(Fields{"colour": "green"}, testRules())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

// Package validation checks raw project records before they reach the repository.
//
// Rules are evaluated in a fixed order and the first violation wins, so the
// same input always yields the same message.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// Fields is a raw, untyped project record as received from a presentation layer.
type Fields map[string]any

// Rules are the externally configured bounds a project must satisfy.
type Rules struct {
	Types            []domain.ProjectType
	IntensityMin     int
	IntensityMax     int
	IntensityDefault int
	AreaMin          float64
	DurationMin      int
}

// RulesFromConfig derives validation rules from the impact configuration.
func RulesFromConfig(c config.ImpactConfig) Rules {
	return Rules{
		Types:            lo.Map(c.ProjectTypes, func(t string, _ int) domain.ProjectType { return domain.ProjectType(t) }),
		IntensityMin:     c.IntensityMin,
		IntensityMax:     c.IntensityMax,
		IntensityDefault: c.IntensityDefault,
		AreaMin:          c.AreaMinHa,
		DurationMin:      c.DurationMinMonths,
	}
}

var (
	errNotNumber  = errors.New("not a number")
	errNotInteger = errors.New("not an integer")
)

// Validate checks fields against rules and returns the parsed project.
// The returned error is always a *domain.ValidationError.
func Validate(fields Fields, rules Rules) (*domain.Project, error) {
	p := &domain.Project{}

	p.ID = text(fields, domain.ColumnID)
	if p.ID == "" {
		return nil, invalid(domain.ColumnID, "id must not be empty")
	}

	p.Name = text(fields, domain.ColumnName)
	if p.Name == "" {
		return nil, invalid(domain.ColumnName, "name must not be empty")
	}

	t, err := checkType(fields[domain.ColumnType], rules)
	if err != nil {
		return nil, err
	}
	p.Type = t

	if p.AreaHa, err = checkArea(fields[domain.ColumnAreaHa], rules); err != nil {
		return nil, err
	}
	if p.DurationMonths, err = checkDuration(fields[domain.ColumnDurationMonths], rules); err != nil {
		return nil, err
	}

	p.Location = text(fields, domain.ColumnLocation)

	intensity := fields[domain.ColumnIntensity]
	if isBlank(intensity) {
		intensity = rules.IntensityDefault
	}
	if p.Intensity, err = checkIntensity(intensity, rules); err != nil {
		return nil, err
	}

	return p, nil
}

// ValidateChanges checks a partial update. Unknown keys and the id are dropped;
// every remaining known column must satisfy its own rule. The result maps
// column names to their canonical stored text.
func ValidateChanges(changes Fields, rules Rules) (map[string]string, error) {
	out := make(map[string]string, len(changes))
	for _, col := range domain.Columns {
		v, ok := changes[col]
		if !ok || col == domain.ColumnID {
			continue
		}

		switch col {
		case domain.ColumnName:
			name := strings.TrimSpace(stringify(v))
			if name == "" {
				return nil, invalid(col, "name must not be empty")
			}
			out[col] = name
		case domain.ColumnType:
			t, err := checkType(v, rules)
			if err != nil {
				return nil, err
			}
			out[col] = string(t)
		case domain.ColumnAreaHa:
			area, err := checkArea(v, rules)
			if err != nil {
				return nil, err
			}
			out[col] = strconv.FormatFloat(area, 'f', -1, 64)
		case domain.ColumnDurationMonths:
			d, err := checkDuration(v, rules)
			if err != nil {
				return nil, err
			}
			out[col] = strconv.Itoa(d)
		case domain.ColumnIntensity:
			i, err := checkIntensity(v, rules)
			if err != nil {
				return nil, err
			}
			out[col] = strconv.Itoa(i)
		case domain.ColumnLocation:
			out[col] = strings.TrimSpace(stringify(v))
		}
	}
	return out, nil
}

func checkType(v any, rules Rules) (domain.ProjectType, error) {
	t := domain.ProjectType(strings.ToLower(strings.TrimSpace(stringify(v))))
	if !lo.Contains(rules.Types, t) {
		names := lo.Map(rules.Types, func(t domain.ProjectType, _ int) string { return string(t) })
		return "", invalid(domain.ColumnType, fmt.Sprintf("invalid project type, must be one of: %s", strings.Join(names, ", ")))
	}
	return t, nil
}

func checkArea(v any, rules Rules) (float64, error) {
	area, err := toFloat(v)
	if err != nil {
		return 0, invalid(domain.ColumnAreaHa, "area_ha must be a valid number")
	}
	if area < rules.AreaMin {
		return 0, invalid(domain.ColumnAreaHa, fmt.Sprintf("area_ha must be at least %g hectares", rules.AreaMin))
	}
	return area, nil
}

func checkDuration(v any, rules Rules) (int, error) {
	d, err := toInt(v)
	if err != nil {
		return 0, invalid(domain.ColumnDurationMonths, "duration_months must be a valid integer")
	}
	if d < rules.DurationMin {
		return 0, invalid(domain.ColumnDurationMonths, fmt.Sprintf("duration_months must be at least %d month(s)", rules.DurationMin))
	}
	return d, nil
}

func checkIntensity(v any, rules Rules) (int, error) {
	i, err := toInt(v)
	if err != nil {
		return 0, invalid(domain.ColumnIntensity, "intensity must be a valid integer")
	}
	if i < rules.IntensityMin || i > rules.IntensityMax {
		return 0, invalid(domain.ColumnIntensity, fmt.Sprintf("intensity must be between %d and %d", rules.IntensityMin, rules.IntensityMax))
	}
	return i, nil
}

func invalid(field, msg string) *domain.ValidationError {
	return &domain.ValidationError{Field: field, Message: msg}
}

func text(fields Fields, key string) string {
	return strings.TrimSpace(stringify(fields[key]))
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = n
	default:
		return 0, errNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case int32:
		return int(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, errNotInteger
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, errNotInteger
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	default:
		return 0, errNotInteger
	}
}

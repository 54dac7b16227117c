package domain

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectID(t *testing.T) {
	re := regexp.MustCompile(`^prj-\d{5}-\d{4}$`)
	for i := 0; i < 50; i++ {
		id, err := NewProjectID("prj")
		require.NoError(t, err)
		assert.Regexp(t, re, id)
	}
}

func TestScoresOf(t *testing.T) {
	s := Scores{Air: 1, Water: 2, Biodiversity: 3, Land: 4, TotalRisk: 5}
	assert.Equal(t, 1.0, s.Of(CategoryAir))
	assert.Equal(t, 2.0, s.Of(CategoryWater))
	assert.Equal(t, 3.0, s.Of(CategoryBiodiversity))
	assert.Equal(t, 4.0, s.Of(CategoryLand))
	assert.Equal(t, 0.0, s.Of(Category("noise")))
}

func TestStorageError_Unwraps(t *testing.T) {
	inner := errors.New("permission denied")
	err := fmt.Errorf("update: %w", &StorageError{Op: "rewrite", Err: inner})

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "rewrite", se.Op)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "storage rewrite: permission denied", se.Error())
}

func TestValidationError_Message(t *testing.T) {
	var err error = &ValidationError{Field: "id", Message: "id must not be empty"}
	assert.Equal(t, "id must not be empty", err.Error())
}

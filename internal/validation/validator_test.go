package validation

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileRequest struct {
	AgeBracket *string  `json:"age_bracket" validate:"omitempty,agebracket"`
	Gender     *string  `json:"gender" validate:"omitempty,gender"`
	Diseases   []string `json:"diseases" validate:"omitempty,dive,disease"`
	Priority   int      `json:"priority" validate:"min=1,max=20"`
	Category   string   `json:"air_quality_category" validate:"omitempty,aqcategory"`
}

func strPtr(s string) *string { return &s }

func TestValidate_Passes(t *testing.T) {
	req := profileRequest{
		AgeBracket: strPtr("25_34"),
		Gender:     strPtr("female"),
		Diseases:   []string{"asthma", "copd"},
		Priority:   5,
		Category:   "moderate",
	}
	assert.NoError(t, Validate(&req))
}

func TestValidate_ReturnsNilInterface(t *testing.T) {
	err := Validate(&profileRequest{Priority: 1})
	assert.True(t, err == nil)
}

func TestValidate_FieldMessages(t *testing.T) {
	req := profileRequest{
		AgeBracket: strPtr("teen"),
		Diseases:   []string{"asthma", "flu"},
		Priority:   25,
		Category:   "smoky",
	}

	err := Validate(&req)
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.Validation, appErr.Kind)
	assert.Contains(t, appErr.Fields["age_bracket"], "must be one of")
	assert.Contains(t, appErr.Fields["diseases[1]"], "must be one of")
	assert.Equal(t, "priority must be at most 20", appErr.Fields["priority"])
	assert.Equal(t, "air_quality_category must be a valid air quality category", appErr.Fields["air_quality_category"])
	assert.NotContains(t, appErr.Fields, "gender")
}

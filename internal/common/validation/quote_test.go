// internal/common/validation/quote_test.go
package validation

import (
	"errors"
	"testing"

	apperrors "home-quote-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuoteInput_Valid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"full input", `{"state":"Texas","propertyType":"Single Family","squareFootage":2200,"roofAge":8}`},
		{"null square footage", `{"state":"Texas","propertyType":"Condo","squareFootage":null,"roofAge":0}`},
		{"absent square footage", `{"state":"Texas","propertyType":"Condo","roofAge":3}`},
		{"unknown state and type", `{"state":"Atlantis","propertyType":"Castle","squareFootage":1000,"roofAge":3}`},
		{"out of nominal range", `{"state":"Texas","propertyType":"Condo","squareFootage":0,"roofAge":120}`},
		{"extra process variables", `{"roofAge":3,"applicationId":"app-1","address":"742 Evergreen Terrace"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateQuoteInput([]byte(tt.body), false)
			assert.True(t, res.Valid, "%v", res.Errors)
			assert.NoError(t, res.Err())
		})
	}
}

func TestValidateQuoteInput_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		strict        bool
		expectedField string
	}{
		{"non-numeric square footage", `{"state":"Texas","squareFootage":"big","roofAge":8}`, false, "squareFootage"},
		{"non-numeric roof age", `{"state":"Texas","squareFootage":2200,"roofAge":"old"}`, false, "roofAge"},
		{"missing roof age", `{"state":"Texas","squareFootage":2200}`, false, "roofAge"},
		{"state not a string", `{"state":42,"roofAge":1}`, false, "state"},
		{"strict square footage below range", `{"squareFootage":100,"roofAge":8}`, true, "squareFootage"},
		{"strict roof age above range", `{"squareFootage":2200,"roofAge":81}`, true, "roofAge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateQuoteInput([]byte(tt.body), tt.strict)
			require.False(t, res.Valid)
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.expectedField, res.Errors[0].Field)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(res.Err(), &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidQuoteInput, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestValidateQuoteInput_StrictAcceptsNominalBounds(t *testing.T) {
	for _, body := range []string{
		`{"squareFootage":300,"roofAge":0}`,
		`{"squareFootage":10000,"roofAge":80}`,
		`{"squareFootage":null,"roofAge":8}`,
	} {
		assert.True(t, ValidateQuoteInput([]byte(body), true).Valid, body)
	}
}

func TestValidateQuoteInput_MalformedJSON(t *testing.T) {
	res := ValidateQuoteInput([]byte(`{"roofAge":`), false)
	require.False(t, res.Valid)
	assert.Equal(t, string(apperrors.ErrCodeParseError), res.Errors[0].Code)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(res.Err(), &stdErr))
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ProductID string `validate:"required"`
	Rating    int    `validate:"required,min=1,max=5"`
	Email     string `validate:"omitempty,email"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(sampleRequest{ProductID: "prod-1", Rating: 4})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(sampleRequest{Rating: 4})

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields(), "ProductID")
	assert.Equal(t, "is required", valErr.Fields()["ProductID"])
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	err := Validate(sampleRequest{ProductID: "prod-1", Rating: 6})

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields(), "Rating")
}

func TestValidate_BadEmail(t *testing.T) {
	err := Validate(sampleRequest{ProductID: "prod-1", Rating: 3, Email: "not-an-email"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

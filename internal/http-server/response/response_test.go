package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
)

func TestOK(t *testing.T) {
	resp := response.OK()
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
}

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"id": 1})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("NameTooLong")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "NameTooLong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)
	validateErr, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	resp := response.ValidationError(validateErr)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "Name is a required field")
}

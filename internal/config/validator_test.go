package config

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorUsesJSONNames(t *testing.T) {
	type request struct {
		DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
		Email   string `json:"email" validate:"required,email"`
	}
	err := NewValidator().Struct(request{DueDate: "10/01/2025", Email: "nope"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := []string{}
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"due_date", "email"}, fields)
}

package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsim/internal/shared/errors"
)

type sampleRequest struct {
	OptionID uint             `json:"product_option_id" validate:"required"`
	Term     int              `json:"term" validate:"required,min=1,max=120"`
	Amount   decimal.Decimal  `json:"amount" validate:"gt=0"`
	Override *decimal.Decimal `json:"override,omitempty" validate:"omitempty,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	ok := sampleRequest{OptionID: 1, Term: 12, Amount: decimal.NewFromInt(1000)}
	require.NoError(t, ValidateStruct(ok))

	negative := decimal.NewFromInt(-5)
	err := ValidateStruct(sampleRequest{Term: 0, Amount: decimal.Zero, Override: &negative})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	details := errors.GetAppError(err).Details
	assert.Contains(t, details, "product_option_id is required")
	assert.Contains(t, details, "term is required")
	assert.Contains(t, details, "amount must be greater than 0")
	assert.Contains(t, details, "override must be greater than 0")
}

func TestValidateStruct_TermBounds(t *testing.T) {
	err := ValidateStruct(sampleRequest{OptionID: 1, Term: 121, Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, errors.GetAppError(err).Details, "term must be at most 120")
}

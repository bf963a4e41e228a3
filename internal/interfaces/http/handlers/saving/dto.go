package saving

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finsim/internal/application/saving/usecases"
	"finsim/internal/shared/errors"
)

type OpenSubscriptionRequest struct {
	ProductOptionID uint            `json:"product_option_id" validate:"required"`
	Term            int             `json:"term" validate:"required,min=1,max=120"`
	AutoDebitAmount decimal.Decimal `json:"auto_debit_amount" validate:"gt=0"`
}

func (r *OpenSubscriptionRequest) ToCommand(userID uint) usecases.OpenSubscriptionCommand {
	return usecases.OpenSubscriptionCommand{
		UserID:          userID,
		ProductOptionID: r.ProductOptionID,
		Term:            r.Term,
		AutoDebitAmount: r.AutoDebitAmount,
	}
}

// DepositRequest overrides the expected installment when Amount is set.
type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
}

func parseIDParam(c *gin.Context, name, entity string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid " + entity + " ID")
	}
	return uint(id), nil
}

func parseQuoteQuery(c *gin.Context) (usecases.PreviewInterestQuery, error) {
	optionID, err := strconv.ParseUint(c.Query("product_option_id"), 10, 64)
	if err != nil || optionID == 0 {
		return usecases.PreviewInterestQuery{}, errors.NewValidationError("product_option_id is required")
	}
	term, err := strconv.Atoi(c.Query("term"))
	if err != nil || term < 1 {
		return usecases.PreviewInterestQuery{}, errors.NewValidationError("term must be a positive integer")
	}
	amount, err := decimal.NewFromString(c.Query("monthly_amount"))
	if err != nil || !amount.IsPositive() {
		return usecases.PreviewInterestQuery{}, errors.NewValidationError("monthly_amount must be greater than 0")
	}
	return usecases.PreviewInterestQuery{
		ProductOptionID: uint(optionID),
		Term:            term,
		MonthlyAmount:   amount,
	}, nil
}

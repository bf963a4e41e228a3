package saving

import (
	"fmt"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

const (
	// calcPrecision is the number of decimal places kept for intermediate values.
	calcPrecision int32 = 20
)

var (
	// TaxRate is the withholding applied to earned interest.
	TaxRate = decimal.RequireFromString("0.154")

	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// InterestQuote is the projected outcome of a fully honored schedule.
type InterestQuote struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Rate      decimal.Decimal
	RateType  vo.RateType
}

// InterestCalculator projects the payout of an installment savings plan.
// It is pure; intermediate values keep 20 decimal places and rounding only
// happens on the outputs.
type InterestCalculator struct{}

// Calculate quotes a plan depositing monthly for term months at the annual
// rate (percent). A nil rate is rejected.
func (InterestCalculator) Calculate(monthly decimal.Decimal, term int, annualRate *decimal.Decimal, rateType vo.RateType) (*InterestQuote, error) {
	switch {
	case term <= 0:
		return nil, fmt.Errorf("%w: term %d", ErrInvalidCalculationInput, term)
	case annualRate == nil:
		return nil, fmt.Errorf("%w: rate is required", ErrInvalidCalculationInput)
	case annualRate.IsNegative():
		return nil, fmt.Errorf("%w: negative rate %s", ErrInvalidCalculationInput, annualRate)
	case !monthly.IsPositive():
		return nil, fmt.Errorf("%w: monthly amount %s", ErrInvalidCalculationInput, monthly)
	}

	principal := monthly.Mul(decimal.NewFromInt(int64(term)))
	monthlyRate := annualRate.DivRound(hundred, calcPrecision).DivRound(monthsPerYear, calcPrecision)

	var raw decimal.Decimal
	if rateType.IsCompound() {
		raw = compoundInterest(monthly, term, monthlyRate, principal)
	} else {
		rateType = vo.RateTypeSimple
		raw = simpleInterest(monthly, term, monthlyRate)
	}

	interest := raw.Round(0)
	tax := interest.Mul(TaxRate).Truncate(0)
	total := principal.Add(interest).Sub(tax).Truncate(0)

	return &InterestQuote{
		Principal: principal,
		Interest:  interest,
		Tax:       tax,
		Total:     total,
		Rate:      *annualRate,
		RateType:  rateType,
	}, nil
}

// simpleInterest accrues each deposit for the months it stays in the plan:
// the first deposit earns term months, the last earns one.
func simpleInterest(monthly decimal.Decimal, term int, monthlyRate decimal.Decimal) decimal.Decimal {
	perMonth := monthly.Mul(monthlyRate)
	sum := decimal.Zero
	for i := 1; i <= term; i++ {
		sum = sum.Add(perMonth.Mul(decimal.NewFromInt(int64(term - i + 1))))
	}
	return sum
}

func compoundInterest(monthly decimal.Decimal, term int, monthlyRate, principal decimal.Decimal) decimal.Decimal {
	growth := decimal.NewFromInt(1).Add(monthlyRate)
	balance := decimal.Zero
	for i := 0; i < term; i++ {
		balance = balance.Add(monthly).Mul(growth).Round(calcPrecision)
	}
	return balance.Sub(principal)
}

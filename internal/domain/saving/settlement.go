package saving

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const prorationPlaces int32 = 4

// Settlement is the maturity payout snapshot stored on the subscription.
type Settlement struct {
	Principal     decimal.Decimal `json:"principal"`
	Rate          decimal.Decimal `json:"rate"`
	Proration     decimal.Decimal `json:"proration"`
	Interest      decimal.Decimal `json:"interest"`
	Total         decimal.Decimal `json:"total"`
	MissedCount   int             `json:"missed_count"`
	TransactionID string          `json:"transaction_id,omitempty"`
	SettledOn     time.Time       `json:"settled_on"`
}

// Proration is the share of the term that was honored, clamped to [0, 1]
// and truncated to four decimal places.
func Proration(term, missed int) (decimal.Decimal, error) {
	if term < 1 {
		return decimal.Zero, fmt.Errorf("%w: term %d", ErrInvalidPolicyInput, term)
	}
	p := decimal.NewFromInt(int64(term - missed)).DivRound(decimal.NewFromInt(int64(term)), calcPrecision)
	if p.IsNegative() {
		p = decimal.Zero
	}
	if p.GreaterThan(decimal.NewFromInt(1)) {
		p = decimal.NewFromInt(1)
	}
	return p.Truncate(prorationPlaces), nil
}

// ComputeSettlement derives the payout from collected principal, the best
// annual rate (percent) and the miss count. Interest is floored to whole units.
func ComputeSettlement(principal, annualRate decimal.Decimal, term, missed int, today time.Time) (Settlement, error) {
	proration, err := Proration(term, missed)
	if err != nil {
		return Settlement{}, err
	}
	if annualRate.IsNegative() {
		annualRate = decimal.Zero
	}
	interest := principal.Mul(annualRate).Mul(proration).Div(hundred).Floor()
	if interest.IsNegative() {
		interest = decimal.Zero
	}
	return Settlement{
		Principal:   principal,
		Rate:        annualRate,
		Proration:   proration,
		Interest:    interest,
		Total:       principal.Add(interest),
		MissedCount: missed,
		SettledOn:   today,
	}, nil
}

package usecases

import (
	"fmt"
	"time"

	"finsim/internal/shared/biztime"
)

// Wallet request ids. The wallet treats a repeated id as the same
// operation, so each id encodes exactly the scope that must not repeat.

// autoDebitRequestID is unique per attempt. A retried attempt after a miss
// is a new debit, never a replay of the failed one.
func autoDebitRequestID(subscriptionID uint, cycle int, attempt string) string {
	return fmt.Sprintf("autodebit:%d:%d:%s", subscriptionID, cycle, attempt)
}

// manualDepositRequestID allows one manual deposit per subscription per day.
func manualDepositRequestID(subscriptionID uint, today time.Time) string {
	return fmt.Sprintf("manual:%d:%s", subscriptionID, biztime.CompactDate(today))
}

// maturityRequestID makes the payout credit happen at most once.
func maturityRequestID(subscriptionID uint) string {
	return fmt.Sprintf("maturity:%d", subscriptionID)
}

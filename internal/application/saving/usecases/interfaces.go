package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

// TxRunner runs fn as one unit of work. *db.TransactionManager implements it.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductCatalog is the read side of the product catalog. Lookups of an
// unknown option fail with saving.ErrProductNotFound.
type ProductCatalog interface {
	SupportedTerms(ctx context.Context, optionID uint) ([]int, error)
	// BestRate returns the larger of base and preferential annual rate (percent).
	BestRate(ctx context.Context, optionID uint, term int) (decimal.Decimal, error)
	RateType(ctx context.Context, optionID uint) (vo.RateType, error)
	ProductName(ctx context.Context, optionID uint) (string, error)
	IncrementPopularity(ctx context.Context, optionID uint) error
}

// RunGuard suppresses duplicate same-day auto-debit runs for one user.
type RunGuard interface {
	// TryAcquire returns false when a run for (userID, day) was already claimed.
	TryAcquire(ctx context.Context, userID uint, day time.Time) (bool, error)
	// Release drops the claim so the run can be repeated the same day.
	Release(ctx context.Context, userID uint, day time.Time) error
}

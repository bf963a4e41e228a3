package saving

import (
	"context"
	"time"

	vo "finsim/internal/domain/saving/valueobjects"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	// GetByID fails with ErrSubscriptionNotFound for unknown ids.
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// GetByIDForUpdate reads the row inside the caller's transaction and
	// holds a row lock until it ends where the database supports one.
	GetByIDForUpdate(ctx context.Context, id uint) (*Subscription, error)
	ListByUserAndStatus(ctx context.Context, userID uint, status vo.SubscriptionStatus) ([]*Subscription, error)
	ListActiveUserIDs(ctx context.Context) ([]uint, error)
	// ListMaturedActive returns ACTIVE subscriptions with maturity on or
	// before today ordered by maturity date. userID 0 matches every user.
	ListMaturedActive(ctx context.Context, userID uint, today time.Time) ([]*Subscription, error)
	// Update persists a single mutation of sub; it fails with
	// ErrConcurrentModification when the stored version moved in between.
	Update(ctx context.Context, sub *Subscription) error
}

type PaymentHistoryRepository interface {
	CreateBatch(ctx context.Context, lines []*PaymentHistory) error
	// GetNextPlanned returns the lowest-cycle PLANNED line, or nil.
	GetNextPlanned(ctx context.Context, subscriptionID uint) (*PaymentHistory, error)
	// GetNextPlannedFrom returns the lowest-cycle PLANNED line due on or after from, or nil.
	GetNextPlannedFrom(ctx context.Context, subscriptionID uint, from time.Time) (*PaymentHistory, error)
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*PaymentHistory, error)
	CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error)
	CountByStatus(ctx context.Context, subscriptionID uint, status vo.PaymentStatus) (int64, error)
	// UpdateSettlement writes the outcome of a PLANNED line. It returns
	// ErrPaymentNotPlanned when the stored line already left PLANNED.
	UpdateSettlement(ctx context.Context, line *PaymentHistory) error
}

package saving

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

// MaxMissedPayments is the number of cumulative misses that terminates a subscription.
const MaxMissedPayments = 3

// Subscription is the savings-plan aggregate root. Term, amount and the
// schedule dates are fixed at creation; only the status and its audit
// fields change afterwards.
type Subscription struct {
	id              uint
	userID          uint
	productOptionID uint
	term            int
	autoDebitAmount decimal.Decimal
	startDate       time.Time
	maturityDate    time.Time
	status          vo.SubscriptionStatus
	canceledAt      *time.Time
	terminatedAt    *time.Time
	maturedAt       *time.Time
	settlement      *Settlement
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSubscription creates an ACTIVE subscription starting on startDate.
func NewSubscription(userID, productOptionID uint, term int, autoDebitAmount decimal.Decimal, startDate time.Time, policy TickPolicy) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if productOptionID == 0 {
		return nil, fmt.Errorf("%w: product option ID is required", ErrProductNotFound)
	}
	if !autoDebitAmount.IsPositive() {
		return nil, fmt.Errorf("%w: auto debit amount %s", ErrInvalidAmount, autoDebitAmount)
	}
	maturity, err := policy.MaturityDate(startDate, term)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:          userID,
		productOptionID: productOptionID,
		term:            term,
		autoDebitAmount: autoDebitAmount,
		startDate:       startDate,
		maturityDate:    maturity,
		status:          vo.StatusActive,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID              uint
	UserID          uint
	ProductOptionID uint
	Term            int
	AutoDebitAmount decimal.Decimal
	StartDate       time.Time
	MaturityDate    time.Time
	Status          vo.SubscriptionStatus
	CanceledAt      *time.Time
	TerminatedAt    *time.Time
	MaturedAt       *time.Time
	Settlement      *Settlement
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidSubscriptionStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	return &Subscription{
		id:              p.ID,
		userID:          p.UserID,
		productOptionID: p.ProductOptionID,
		term:            p.Term,
		autoDebitAmount: p.AutoDebitAmount,
		startDate:       p.StartDate,
		maturityDate:    p.MaturityDate,
		status:          p.Status,
		canceledAt:      p.CanceledAt,
		terminatedAt:    p.TerminatedAt,
		maturedAt:       p.MaturedAt,
		settlement:      p.Settlement,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                         { return s.id }
func (s *Subscription) UserID() uint                     { return s.userID }
func (s *Subscription) ProductOptionID() uint            { return s.productOptionID }
func (s *Subscription) Term() int                        { return s.term }
func (s *Subscription) AutoDebitAmount() decimal.Decimal { return s.autoDebitAmount }
func (s *Subscription) StartDate() time.Time             { return s.startDate }
func (s *Subscription) MaturityDate() time.Time          { return s.maturityDate }
func (s *Subscription) Status() vo.SubscriptionStatus    { return s.status }
func (s *Subscription) CanceledAt() *time.Time           { return s.canceledAt }
func (s *Subscription) TerminatedAt() *time.Time         { return s.terminatedAt }
func (s *Subscription) MaturedAt() *time.Time            { return s.maturedAt }
func (s *Subscription) Settlement() *Settlement          { return s.settlement }
func (s *Subscription) Version() int                     { return s.version }
func (s *Subscription) CreatedAt() time.Time             { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time             { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

// IsOwnedBy reports whether the subscription belongs to userID.
func (s *Subscription) IsOwnedBy(userID uint) bool {
	return s.userID == userID
}

// HasMatured reports whether today is on or after the maturity date.
func (s *Subscription) HasMatured(today time.Time) bool {
	return !today.Before(s.maturityDate)
}

// Cancel moves an ACTIVE subscription to CANCELED. Ledger lines are untouched.
func (s *Subscription) Cancel(at time.Time) error {
	if err := s.transition(vo.StatusCanceled, "cancel"); err != nil {
		return err
	}
	s.canceledAt = &at
	s.touch(at)
	return nil
}

// Terminate is applied by auto-debit after too many missed payments.
func (s *Subscription) Terminate(at time.Time) error {
	if err := s.transition(vo.StatusTerminated, "terminate"); err != nil {
		return err
	}
	s.terminatedAt = &at
	s.touch(at)
	return nil
}

// Mature records the settlement and closes the subscription.
func (s *Subscription) Mature(settlement Settlement, today time.Time, at time.Time) error {
	if !s.HasMatured(today) {
		return fmt.Errorf("%w: matures on %s", ErrNotYetMatured, s.maturityDate.Format(time.DateOnly))
	}
	if err := s.transition(vo.StatusMatured, "mature"); err != nil {
		return err
	}
	s.settlement = &settlement
	s.maturedAt = &at
	s.touch(at)
	return nil
}

// ShouldTerminate reports whether the cumulative miss count reached the limit.
func ShouldTerminate(missed int) bool {
	return missed >= MaxMissedPayments
}

func (s *Subscription) transition(target vo.SubscriptionStatus, op string) error {
	if !s.status.CanTransitionTo(target) {
		return errInvalidState(op, s.status)
	}
	s.status = target
	return nil
}

func (s *Subscription) touch(at time.Time) {
	s.updatedAt = at
	s.version++
}

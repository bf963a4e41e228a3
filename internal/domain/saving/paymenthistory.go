package saving

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

// PaymentHistory is one scheduled ledger line of a subscription. It refers
// to its subscription by id. Status leaves PLANNED exactly once.
type PaymentHistory struct {
	id             uint
	subscriptionID uint
	cycle          int
	dueDate        time.Time
	expectedAmount decimal.Decimal
	status         vo.PaymentStatus
	paidAmount     *decimal.Decimal
	walletTxID     *string
	note           *string
	processedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPlannedPayment creates a PLANNED line.
func NewPlannedPayment(subscriptionID uint, cycle int, dueDate time.Time, expected decimal.Decimal) (*PaymentHistory, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if cycle < 1 {
		return nil, fmt.Errorf("cycle must be positive, got %d", cycle)
	}
	now := time.Now().UTC()
	return &PaymentHistory{
		subscriptionID: subscriptionID,
		cycle:          cycle,
		dueDate:        dueDate,
		expectedAmount: expected,
		status:         vo.PaymentPlanned,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

type PaymentHistoryReconstructParams struct {
	ID             uint
	SubscriptionID uint
	Cycle          int
	DueDate        time.Time
	ExpectedAmount decimal.Decimal
	Status         vo.PaymentStatus
	PaidAmount     *decimal.Decimal
	WalletTxID     *string
	Note           *string
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructPaymentHistory(p PaymentHistoryReconstructParams) (*PaymentHistory, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("payment history ID cannot be zero")
	}
	if !vo.ValidPaymentStatuses[p.Status] {
		return nil, fmt.Errorf("invalid payment status: %s", p.Status)
	}
	return &PaymentHistory{
		id:             p.ID,
		subscriptionID: p.SubscriptionID,
		cycle:          p.Cycle,
		dueDate:        p.DueDate,
		expectedAmount: p.ExpectedAmount,
		status:         p.Status,
		paidAmount:     p.PaidAmount,
		walletTxID:     p.WalletTxID,
		note:           p.Note,
		processedAt:    p.ProcessedAt,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (p *PaymentHistory) ID() uint                        { return p.id }
func (p *PaymentHistory) SubscriptionID() uint            { return p.subscriptionID }
func (p *PaymentHistory) Cycle() int                      { return p.cycle }
func (p *PaymentHistory) DueDate() time.Time              { return p.dueDate }
func (p *PaymentHistory) ExpectedAmount() decimal.Decimal { return p.expectedAmount }
func (p *PaymentHistory) Status() vo.PaymentStatus        { return p.status }
func (p *PaymentHistory) PaidAmount() *decimal.Decimal    { return p.paidAmount }
func (p *PaymentHistory) WalletTxID() *string             { return p.walletTxID }
func (p *PaymentHistory) Note() *string                   { return p.note }
func (p *PaymentHistory) ProcessedAt() *time.Time         { return p.processedAt }
func (p *PaymentHistory) CreatedAt() time.Time            { return p.createdAt }
func (p *PaymentHistory) UpdatedAt() time.Time            { return p.updatedAt }

// SetID sets the line ID (only for persistence layer use)
func (p *PaymentHistory) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("payment history ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *PaymentHistory) IsPlanned() bool {
	return p.status == vo.PaymentPlanned
}

// IsDue reports whether the line is due on or before today.
func (p *PaymentHistory) IsDue(today time.Time) bool {
	return !p.dueDate.After(today)
}

// HasExpectedAmount is false for malformed legacy lines.
func (p *PaymentHistory) HasExpectedAmount() bool {
	return p.expectedAmount.IsPositive()
}

// MarkPaid records a successful debit. A charge below the expected amount
// marks the line PARTIAL.
func (p *PaymentHistory) MarkPaid(amount decimal.Decimal, walletTxID string, at time.Time) error {
	if !p.IsPlanned() {
		return fmt.Errorf("%w: cycle %d is %s", ErrPaymentNotPlanned, p.cycle, p.status)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: paid amount %s", ErrInvalidAmount, amount)
	}
	p.status = vo.PaymentPaid
	if p.HasExpectedAmount() && amount.LessThan(p.expectedAmount) {
		p.status = vo.PaymentPartial
	}
	p.paidAmount = &amount
	p.walletTxID = &walletTxID
	p.processedAt = &at
	p.updatedAt = at
	return nil
}

// MarkMissed records a failed debit with the reason as note.
func (p *PaymentHistory) MarkMissed(reason string, at time.Time) error {
	if !p.IsPlanned() {
		return fmt.Errorf("%w: cycle %d is %s", ErrPaymentNotPlanned, p.cycle, p.status)
	}
	p.status = vo.PaymentMissed
	if reason != "" {
		p.note = &reason
	}
	p.processedAt = &at
	p.updatedAt = at
	return nil
}

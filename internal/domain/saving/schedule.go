package saving

import (
	"fmt"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

// BuildSchedule creates the full PLANNED schedule of a persisted
// subscription: one line per tick, cycle i due on first due date + (i-1).
func BuildSchedule(sub *Subscription, policy TickPolicy) ([]*PaymentHistory, error) {
	if sub.ID() == 0 {
		return nil, fmt.Errorf("subscription must be persisted before building its schedule")
	}
	ticks, err := policy.ToTotalTicks(sub.Term())
	if err != nil {
		return nil, err
	}

	first := policy.FirstDueDate(sub.StartDate())
	lines := make([]*PaymentHistory, 0, ticks)
	for i := 0; i < ticks; i++ {
		due, err := policy.NextDueDate(first, i)
		if err != nil {
			return nil, err
		}
		line, err := NewPlannedPayment(sub.ID(), i+1, due, sub.AutoDebitAmount())
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LedgerSummary aggregates a subscription's lines.
type LedgerSummary struct {
	Principal decimal.Decimal
	Paid      int
	Partial   int
	Missed    int
	Planned   int
}

// Summarize sums collected principal and counts lines per status.
func Summarize(lines []*PaymentHistory) LedgerSummary {
	s := LedgerSummary{Principal: decimal.Zero}
	for _, l := range lines {
		switch l.Status() {
		case vo.PaymentPaid:
			s.Paid++
		case vo.PaymentPartial:
			s.Partial++
		case vo.PaymentMissed:
			s.Missed++
		case vo.PaymentPlanned:
			s.Planned++
		}
		if l.Status().CountsAsPrincipal() && l.PaidAmount() != nil {
			s.Principal = s.Principal.Add(*l.PaidAmount())
		}
	}
	return s
}

// NextPlanned returns the earliest PLANNED line by cycle, or nil.
func NextPlanned(lines []*PaymentHistory) *PaymentHistory {
	var next *PaymentHistory
	for _, l := range lines {
		if l.IsPlanned() && (next == nil || l.Cycle() < next.Cycle()) {
			next = l
		}
	}
	return next
}

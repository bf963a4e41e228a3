package saving

import (
	"fmt"
	"time"

	"finsim/internal/shared/biztime"
)

// TickPolicy maps the service calendar onto real days: one real day is one
// service month. All dates are calendar dates as produced by biztime.
type TickPolicy struct{}

// ToTotalTicks returns the number of ticks a term spans.
func (TickPolicy) ToTotalTicks(term int) (int, error) {
	if term < 1 {
		return 0, fmt.Errorf("%w: term %d", ErrInvalidPolicyInput, term)
	}
	return term, nil
}

// FirstDueDate is the due date of cycle 1.
func (TickPolicy) FirstDueDate(start time.Time) time.Time {
	return start
}

// MaturityDate is the day after the last due date.
func (p TickPolicy) MaturityDate(start time.Time, term int) (time.Time, error) {
	ticks, err := p.ToTotalTicks(term)
	if err != nil {
		return time.Time{}, err
	}
	return biztime.AddDays(start, ticks), nil
}

// NextDueDate returns the due date after ticksCompleted ticks.
func (TickPolicy) NextDueDate(start time.Time, ticksCompleted int) (time.Time, error) {
	if ticksCompleted < 0 {
		return time.Time{}, fmt.Errorf("%w: ticks completed %d", ErrInvalidPolicyInput, ticksCompleted)
	}
	return biztime.AddDays(start, ticksCompleted), nil
}

// EstimateCurrentTick returns how many ticks have elapsed by today,
// clamped to [0, term].
func (p TickPolicy) EstimateCurrentTick(start, today time.Time, term int) int {
	first := p.FirstDueDate(start)
	if today.Before(first) {
		return 0
	}
	if maturity, err := p.MaturityDate(start, term); err == nil && !today.Before(maturity) {
		return term
	}
	elapsed := biztime.DaysBetween(first, today)
	if elapsed < 0 {
		return 0
	}
	if term > 0 && elapsed > term {
		return term
	}
	return elapsed
}

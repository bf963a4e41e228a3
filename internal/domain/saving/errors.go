package saving

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound          = errors.New("product option not found")
	ErrUnsupportedTerm          = errors.New("term not supported by product option")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrSubscriptionNotFound     = errors.New("saving subscription not found")
	ErrInvalidSubscriptionState = errors.New("invalid saving subscription state")
	ErrNoNextPlannedPayment     = errors.New("no next planned payment")
	ErrPolicyViolation          = errors.New("payment policy violation")
	ErrNotYetMatured            = errors.New("saving subscription not yet matured")
	ErrInvalidPolicyInput       = errors.New("invalid tick policy input")
	ErrInvalidCalculationInput  = errors.New("invalid interest calculation input")
	ErrPaymentNotPlanned        = errors.New("payment is not planned")
	ErrConcurrentModification   = errors.New("concurrent modification")
)

func errInvalidState(op string, status fmt.Stringer) error {
	return fmt.Errorf("%w: cannot %s subscription in status %s", ErrInvalidSubscriptionState, op, status)
}

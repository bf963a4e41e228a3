package saving

import (
	stdErrors "errors"

	"finsim/internal/domain/saving"
	"finsim/internal/domain/wallet"
	"finsim/internal/shared/errors"
)

// toAppError maps domain failures onto transport error kinds. Anything
// unrecognized stays as is and is reported as an internal error.
func toAppError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}

	msg := err.Error()
	switch {
	case stdErrors.Is(err, saving.ErrSubscriptionNotFound):
		return errors.NewNotFoundError("Subscription not found").WithReason("subscription_not_found")
	case stdErrors.Is(err, saving.ErrProductNotFound):
		return errors.NewNotFoundError("Product option not found").WithReason("product_not_found")
	case stdErrors.Is(err, saving.ErrUnsupportedTerm):
		return errors.NewValidationError("Term not supported by product option", msg).WithReason("unsupported_term")
	case stdErrors.Is(err, saving.ErrInvalidAmount), stdErrors.Is(err, wallet.ErrInvalidAmount):
		return errors.NewValidationError("Invalid amount", msg).WithReason("invalid_amount")
	case stdErrors.Is(err, saving.ErrInvalidCalculationInput):
		return errors.NewValidationError("Invalid quote input", msg).WithReason("invalid_calculation_input")
	case stdErrors.Is(err, saving.ErrNotYetMatured):
		return errors.NewInvalidStateError("Subscription not yet matured", msg).WithReason("not_yet_matured")
	case stdErrors.Is(err, saving.ErrInvalidSubscriptionState):
		return errors.NewInvalidStateError("Subscription state does not allow this operation", msg).WithReason("invalid_subscription_state")
	case stdErrors.Is(err, saving.ErrNoNextPlannedPayment):
		return errors.NewInvalidStateError("No planned payment left", msg).WithReason("no_next_planned_payment")
	case stdErrors.Is(err, saving.ErrPolicyViolation):
		return errors.NewPolicyViolationError("Payment is not due today", msg).WithReason("policy_violation")
	case stdErrors.Is(err, wallet.ErrInsufficientFunds):
		return errors.NewPolicyViolationError("Insufficient wallet balance").WithReason("insufficient_funds")
	case stdErrors.Is(err, saving.ErrConcurrentModification), stdErrors.Is(err, saving.ErrPaymentNotPlanned):
		return errors.NewConflictError("Subscription was modified concurrently, retry").WithReason("concurrent_modification")
	case stdErrors.Is(err, wallet.ErrRequestConflict):
		return errors.NewConflictError("Wallet request already used").WithReason("request_conflict")
	}
	return err
}

package valueobjects

// SubscriptionStatus is the lifecycle state of a savings subscription.
type SubscriptionStatus string

const (
	StatusActive     SubscriptionStatus = "ACTIVE"
	StatusCanceled   SubscriptionStatus = "CANCELED"
	StatusTerminated SubscriptionStatus = "TERMINATED"
	StatusMatured    SubscriptionStatus = "MATURED"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusTerminated || s == StatusMatured
}

// CanTransitionTo only allows leaving ACTIVE.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	return s == StatusActive && target.IsTerminal()
}

var ValidSubscriptionStatuses = map[SubscriptionStatus]bool{
	StatusActive:     true,
	StatusCanceled:   true,
	StatusTerminated: true,
	StatusMatured:    true,
}

// PaymentStatus is the state of one scheduled ledger line.
type PaymentStatus string

const (
	PaymentPlanned PaymentStatus = "PLANNED"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentMissed  PaymentStatus = "MISSED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsSettled reports whether the line moved out of PLANNED.
func (s PaymentStatus) IsSettled() bool {
	return s != PaymentPlanned
}

// CountsAsPrincipal reports whether money was collected for the line.
func (s PaymentStatus) CountsAsPrincipal() bool {
	return s == PaymentPaid || s == PaymentPartial
}

var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentPlanned: true,
	PaymentPaid:    true,
	PaymentPartial: true,
	PaymentMissed:  true,
}

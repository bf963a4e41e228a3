package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OpenSubscriptionResult struct {
	SubscriptionID uint   `json:"subscription_id"`
	StartDate      string `json:"start_date"`
	MaturityDate   string `json:"maturity_date"`
}

type PaymentLineDTO struct {
	Cycle          int              `json:"cycle"`
	DueDate        string           `json:"due_date"`
	ExpectedAmount decimal.Decimal  `json:"expected_amount"`
	Status         string           `json:"status"`
	PaidAmount     *decimal.Decimal `json:"paid_amount,omitempty"`
	WalletTxID     *string          `json:"wallet_tx_id,omitempty"`
	Note           *string          `json:"note,omitempty"`
	ProcessedAt    *time.Time       `json:"processed_at,omitempty"`
}

type ProgressDTO struct {
	CurrentTick  int             `json:"current_tick"`
	TotalTicks   int             `json:"total_ticks"`
	PaidCount    int             `json:"paid_count"`
	PartialCount int             `json:"partial_count"`
	MissedCount  int             `json:"missed_count"`
	Principal    decimal.Decimal `json:"principal"`
	NextDueDate  *string         `json:"next_due_date,omitempty"`
}

type SettlementDTO struct {
	Principal     decimal.Decimal `json:"principal"`
	Rate          decimal.Decimal `json:"rate"`
	Proration     decimal.Decimal `json:"proration"`
	Interest      decimal.Decimal `json:"interest"`
	Total         decimal.Decimal `json:"total"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

type SubscriptionDetailDTO struct {
	ID              uint             `json:"id"`
	UserID          uint             `json:"user_id"`
	ProductOptionID uint             `json:"product_option_id"`
	ProductName     string           `json:"product_name,omitempty"`
	Term            int              `json:"term"`
	AutoDebitAmount decimal.Decimal  `json:"auto_debit_amount"`
	Status          string           `json:"status"`
	StartDate       string           `json:"start_date"`
	MaturityDate    string           `json:"maturity_date"`
	CanceledAt      *time.Time       `json:"canceled_at,omitempty"`
	TerminatedAt    *time.Time       `json:"terminated_at,omitempty"`
	MaturedAt       *time.Time       `json:"matured_at,omitempty"`
	Settlement      *SettlementDTO   `json:"settlement,omitempty"`
	Progress        ProgressDTO      `json:"progress"`
	Schedule        []PaymentLineDTO `json:"schedule"`
}

type DepositResult struct {
	SubscriptionID uint            `json:"subscription_id"`
	Cycle          int             `json:"cycle"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	TransactionID  string          `json:"transaction_id"`
}

// SettlementResult is what the user receives at maturity.
type SettlementResult struct {
	SubscriptionID uint            `json:"subscription_id"`
	Principal      decimal.Decimal `json:"principal"`
	Rate           decimal.Decimal `json:"rate"`
	Interest       decimal.Decimal `json:"interest"`
	Total          decimal.Decimal `json:"total"`
	TransactionID  string          `json:"transaction_id,omitempty"`
}

type PendingMaturityDTO struct {
	SubscriptionID uint   `json:"subscription_id"`
	ProductName    string `json:"product_name"`
	MaturityDate   string `json:"maturity_date"`
}

type InterestQuoteDTO struct {
	ProductOptionID uint            `json:"product_option_id"`
	Term            int             `json:"term"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount"`
	RateType        string          `json:"rate_type"`
	Rate            decimal.Decimal `json:"rate"`
	Principal       decimal.Decimal `json:"principal"`
	Interest        decimal.Decimal `json:"interest"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

// AutoDebitResult classifies what happened to one subscription in a run.
type AutoDebitResult string

const (
	AutoDebitSuccess AutoDebitResult = "SUCCESS"
	AutoDebitFailure AutoDebitResult = "FAILURE"
	AutoDebitSkipped AutoDebitResult = "SKIPPED"
)

type AutoDebitOutcome struct {
	SubscriptionID uint            `json:"subscription_id"`
	Cycle          int             `json:"cycle,omitempty"`
	Result         AutoDebitResult `json:"result"`
	Reason         string          `json:"reason,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	Terminated     bool            `json:"terminated,omitempty"`
}

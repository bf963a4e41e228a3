package dto

import (
	"finsim/internal/domain/saving"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/mapper"
)

func ToPaymentLineDTO(line *saving.PaymentHistory) PaymentLineDTO {
	return PaymentLineDTO{
		Cycle:          line.Cycle(),
		DueDate:        biztime.FormatDate(line.DueDate()),
		ExpectedAmount: line.ExpectedAmount(),
		Status:         line.Status().String(),
		PaidAmount:     line.PaidAmount(),
		WalletTxID:     line.WalletTxID(),
		Note:           line.Note(),
		ProcessedAt:    line.ProcessedAt(),
	}
}

func ToSettlementDTO(s *saving.Settlement) *SettlementDTO {
	if s == nil {
		return nil
	}
	return &SettlementDTO{
		Principal:     s.Principal,
		Rate:          s.Rate,
		Proration:     s.Proration,
		Interest:      s.Interest,
		Total:         s.Total,
		TransactionID: s.TransactionID,
	}
}

// ToSubscriptionDetailDTO assembles the detail view. currentTick comes from
// the tick policy evaluated against today.
func ToSubscriptionDetailDTO(sub *saving.Subscription, productName string, lines []*saving.PaymentHistory, currentTick int) *SubscriptionDetailDTO {
	summary := saving.Summarize(lines)

	progress := ProgressDTO{
		CurrentTick:  currentTick,
		TotalTicks:   sub.Term(),
		PaidCount:    summary.Paid,
		PartialCount: summary.Partial,
		MissedCount:  summary.Missed,
		Principal:    summary.Principal,
	}
	if next := saving.NextPlanned(lines); next != nil {
		due := biztime.FormatDate(next.DueDate())
		progress.NextDueDate = &due
	}

	schedule := mapper.MapSlice(lines, ToPaymentLineDTO)
	if schedule == nil {
		schedule = []PaymentLineDTO{}
	}

	return &SubscriptionDetailDTO{
		ID:              sub.ID(),
		UserID:          sub.UserID(),
		ProductOptionID: sub.ProductOptionID(),
		ProductName:     productName,
		Term:            sub.Term(),
		AutoDebitAmount: sub.AutoDebitAmount(),
		Status:          sub.Status().String(),
		StartDate:       biztime.FormatDate(sub.StartDate()),
		MaturityDate:    biztime.FormatDate(sub.MaturityDate()),
		CanceledAt:      sub.CanceledAt(),
		TerminatedAt:    sub.TerminatedAt(),
		MaturedAt:       sub.MaturedAt(),
		Settlement:      ToSettlementDTO(sub.Settlement()),
		Progress:        progress,
		Schedule:        schedule,
	}
}

func ToPendingMaturityDTO(sub *saving.Subscription, productName string) PendingMaturityDTO {
	return PendingMaturityDTO{
		SubscriptionID: sub.ID(),
		ProductName:    productName,
		MaturityDate:   biztime.FormatDate(sub.MaturityDate()),
	}
}


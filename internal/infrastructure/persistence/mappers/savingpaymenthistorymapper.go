package mappers

import (
	"fmt"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/mapper"
)

func PaymentHistoryToModel(line *saving.PaymentHistory) *models.SavingPaymentHistoryModel {
	return &models.SavingPaymentHistoryModel{
		ID:             line.ID(),
		SubscriptionID: line.SubscriptionID(),
		Cycle:          line.Cycle(),
		DueDate:        line.DueDate(),
		ExpectedAmount: line.ExpectedAmount(),
		Status:         line.Status().String(),
		PaidAmount:     line.PaidAmount(),
		WalletTxID:     line.WalletTxID(),
		Note:           line.Note(),
		ProcessedAt:    line.ProcessedAt(),
		CreatedAt:      line.CreatedAt(),
		UpdatedAt:      line.UpdatedAt(),
	}
}

func PaymentHistoryToEntity(model *models.SavingPaymentHistoryModel) (*saving.PaymentHistory, error) {
	line, err := saving.ReconstructPaymentHistory(saving.PaymentHistoryReconstructParams{
		ID:             model.ID,
		SubscriptionID: model.SubscriptionID,
		Cycle:          model.Cycle,
		DueDate:        model.DueDate.UTC(),
		ExpectedAmount: model.ExpectedAmount,
		Status:         vo.PaymentStatus(model.Status),
		PaidAmount:     model.PaidAmount,
		WalletTxID:     model.WalletTxID,
		Note:           model.Note,
		ProcessedAt:    model.ProcessedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct payment line %d: %w", model.ID, err)
	}
	return line, nil
}

func PaymentHistoriesToEntities(modelList []*models.SavingPaymentHistoryModel) ([]*saving.PaymentHistory, error) {
	lines := make([]*saving.PaymentHistory, 0, len(modelList))
	for _, model := range modelList {
		line, err := PaymentHistoryToEntity(model)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func PaymentHistoriesToModels(lines []*saving.PaymentHistory) []*models.SavingPaymentHistoryModel {
	return mapper.MapNonNil(lines, PaymentHistoryToModel)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/infrastructure/persistence/mappers"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/db"
)

type SavingPaymentHistoryRepository struct {
	db *gorm.DB
}

func NewSavingPaymentHistoryRepository(db *gorm.DB) *SavingPaymentHistoryRepository {
	return &SavingPaymentHistoryRepository{db: db}
}

func (r *SavingPaymentHistoryRepository) CreateBatch(ctx context.Context, lines []*saving.PaymentHistory) error {
	if len(lines) == 0 {
		return nil
	}
	modelList := mappers.PaymentHistoriesToModels(lines)

	if err := db.GetTxFromContext(ctx, r.db).CreateInBatches(modelList, 100).Error; err != nil {
		return fmt.Errorf("failed to create payment schedule: %w", err)
	}

	for i, model := range modelList {
		if err := lines[i].SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SavingPaymentHistoryRepository) GetNextPlanned(ctx context.Context, subscriptionID uint) (*saving.PaymentHistory, error) {
	return r.firstPlanned(db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ? AND status = ?", subscriptionID, vo.PaymentPlanned.String()))
}

func (r *SavingPaymentHistoryRepository) GetNextPlannedFrom(ctx context.Context, subscriptionID uint, from time.Time) (*saving.PaymentHistory, error) {
	return r.firstPlanned(db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ? AND status = ? AND due_date >= ?", subscriptionID, vo.PaymentPlanned.String(), from))
}

func (r *SavingPaymentHistoryRepository) firstPlanned(query *gorm.DB) (*saving.PaymentHistory, error) {
	var model models.SavingPaymentHistoryModel
	if err := query.Order("cycle ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next planned payment: %w", err)
	}
	return mappers.PaymentHistoryToEntity(&model)
}

func (r *SavingPaymentHistoryRepository) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*saving.PaymentHistory, error) {
	var modelList []*models.SavingPaymentHistoryModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("cycle ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment schedule: %w", err)
	}
	return mappers.PaymentHistoriesToEntities(modelList)
}

func (r *SavingPaymentHistoryRepository) CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingPaymentHistoryModel{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count payment lines: %w", err)
	}
	return count, nil
}

func (r *SavingPaymentHistoryRepository) CountByStatus(ctx context.Context, subscriptionID uint, status vo.PaymentStatus) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingPaymentHistoryModel{}).
		Where("subscription_id = ? AND status = ?", subscriptionID, status.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count payment lines: %w", err)
	}
	return count, nil
}

// UpdateSettlement only touches rows still PLANNED, so two runners racing
// for the same line cannot both settle it.
func (r *SavingPaymentHistoryRepository) UpdateSettlement(ctx context.Context, line *saving.PaymentHistory) error {
	model := mappers.PaymentHistoryToModel(line)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingPaymentHistoryModel{}).
		Where("id = ? AND status = ?", model.ID, vo.PaymentPlanned.String()).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"paid_amount":  model.PaidAmount,
			"wallet_tx_id": model.WalletTxID,
			"note":         model.Note,
			"processed_at": model.ProcessedAt,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: line %d", saving.ErrPaymentNotPlanned, model.ID)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/infrastructure/persistence/mappers"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/db"
	"finsim/internal/shared/logger"
)

type SavingSubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SavingSubscriptionMapper
	logger logger.Interface
}

func NewSavingSubscriptionRepository(db *gorm.DB, logger logger.Interface) saving.SubscriptionRepository {
	return &SavingSubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSavingSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SavingSubscriptionRepositoryImpl) Create(ctx context.Context, sub *saving.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		return fmt.Errorf("failed to map saving subscription: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create saving subscription", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create saving subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set saving subscription ID: %w", err)
	}
	return nil
}

func (r *SavingSubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*saving.Subscription, error) {
	var model models.SavingSubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", saving.ErrSubscriptionNotFound, id)
		}
		r.logger.Errorw("failed to get saving subscription", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get saving subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SavingSubscriptionRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*saving.Subscription, error) {
	var model models.SavingSubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	// sqlite has no FOR UPDATE; its writers are serialized by the database lock
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", saving.ErrSubscriptionNotFound, id)
		}
		r.logger.Errorw("failed to lock saving subscription", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock saving subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SavingSubscriptionRepositoryImpl) ListByUserAndStatus(ctx context.Context, userID uint, status vo.SubscriptionStatus) ([]*saving.Subscription, error) {
	var modelList []*models.SavingSubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, status.String()).
		Order("id ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list saving subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SavingSubscriptionRepositoryImpl) ListActiveUserIDs(ctx context.Context) ([]uint, error) {
	var userIDs []uint

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingSubscriptionModel{}).
		Where("status = ?", vo.StatusActive.String()).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list users with active subscriptions: %w", err)
	}
	return userIDs, nil
}

func (r *SavingSubscriptionRepositoryImpl) ListMaturedActive(ctx context.Context, userID uint, today time.Time) ([]*saving.Subscription, error) {
	var modelList []*models.SavingSubscriptionModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND maturity_date <= ?", vo.StatusActive.String(), today)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Order("maturity_date ASC, id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list matured subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SavingSubscriptionRepositoryImpl) Update(ctx context.Context, sub *saving.Subscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		return fmt.Errorf("failed to map saving subscription: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingSubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"canceled_at":   model.CanceledAt,
			"terminated_at": model.TerminatedAt,
			"matured_at":    model.MaturedAt,
			"settlement":    model.Settlement,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update saving subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update saving subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription %d version %d", saving.ErrConcurrentModification, model.ID, model.Version-1)
	}
	return nil
}

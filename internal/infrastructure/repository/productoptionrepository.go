package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"finsim/internal/domain/product"
	"finsim/internal/infrastructure/persistence/mappers"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/db"
	"finsim/internal/shared/logger"
)

type ProductOptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProductOptionRepository(db *gorm.DB, logger logger.Interface) product.Repository {
	return &ProductOptionRepositoryImpl{db: db, logger: logger}
}

func (r *ProductOptionRepositoryImpl) GetOption(ctx context.Context, optionID uint) (*product.Option, error) {
	var model models.SavingProductOptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("Product").
		Preload("Rates").
		First(&model, optionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", product.ErrOptionNotFound, optionID)
		}
		return nil, fmt.Errorf("failed to get product option: %w", err)
	}
	return mappers.OptionToEntity(&model)
}

func (r *ProductOptionRepositoryImpl) ListOptions(ctx context.Context) ([]*product.Option, error) {
	var modelList []*models.SavingProductOptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Preload("Product").
		Preload("Rates").
		Order("popularity DESC, id ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list product options: %w", err)
	}

	options := make([]*product.Option, 0, len(modelList))
	for _, model := range modelList {
		option, err := mappers.OptionToEntity(model)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, nil
}

func (r *ProductOptionRepositoryImpl) UpdatePopularity(ctx context.Context, option *product.Option) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SavingProductOptionModel{}).
		Where("id = ? AND version = ?", option.ID(), option.Version()-1).
		Updates(map[string]interface{}{
			"popularity": option.Popularity(),
			"version":    option.Version(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update option popularity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: option %d", product.ErrConcurrentModification, option.ID())
	}
	return nil
}

// Upsert matches options by rate label inside the product. Options missing
// from p are kept because subscriptions still reference them.
func (r *ProductOptionRepositoryImpl) Upsert(ctx context.Context, p product.SeedProduct) (uint, error) {
	var productID uint

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		productModel := models.SavingProductModel{Name: p.Name}
		if err := tx.Where("name = ?", p.Name).FirstOrCreate(&productModel).Error; err != nil {
			return fmt.Errorf("failed to upsert product %q: %w", p.Name, err)
		}
		productID = productModel.ID

		for _, seed := range p.Options {
			optionModel := models.SavingProductOptionModel{ProductID: productModel.ID, RateType: seed.RateLabel}
			if err := tx.Omit("Product", "Rates").
				Where("product_id = ? AND rate_type = ?", productModel.ID, seed.RateLabel).
				FirstOrCreate(&optionModel).Error; err != nil {
				return fmt.Errorf("failed to upsert option %q of %q: %w", seed.RateLabel, p.Name, err)
			}

			if err := tx.Where("option_id = ?", optionModel.ID).Delete(&models.SavingOptionRateModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear option rates: %w", err)
			}
			rates := mappers.RatesToModels(optionModel.ID, seed.Rates)
			if len(rates) > 0 {
				if err := tx.Create(&rates).Error; err != nil {
					return fmt.Errorf("failed to create option rates: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Infow("catalog product upserted", "product", p.Name, "product_id", productID, "options", len(p.Options))
	return productID, nil
}

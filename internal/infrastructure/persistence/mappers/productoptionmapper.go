package mappers

import (
	"fmt"

	"finsim/internal/domain/product"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/mapper"
)

// OptionToEntity expects Product and Rates to be preloaded.
func OptionToEntity(model *models.SavingProductOptionModel) (*product.Option, error) {
	rates := mapper.MapSlice(model.Rates, func(r models.SavingOptionRateModel) product.OptionRate {
		return product.OptionRate{
			Term:             r.Term,
			BaseRate:         r.BaseRate,
			PreferentialRate: r.PreferentialRate,
		}
	})

	option, err := product.ReconstructOption(product.OptionReconstructParams{
		ID:          model.ID,
		ProductID:   model.ProductID,
		ProductName: model.Product.Name,
		RateLabel:   model.RateType,
		Popularity:  model.Popularity,
		Rates:       rates,
		Version:     model.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct product option %d: %w", model.ID, err)
	}
	return option, nil
}

// RatesToModels builds the rate rows of one option.
func RatesToModels(optionID uint, rates []product.OptionRate) []models.SavingOptionRateModel {
	return mapper.MapSlice(rates, func(r product.OptionRate) models.SavingOptionRateModel {
		return models.SavingOptionRateModel{
			OptionID:         optionID,
			Term:             r.Term,
			BaseRate:         r.BaseRate,
			PreferentialRate: r.PreferentialRate,
		}
	})
}

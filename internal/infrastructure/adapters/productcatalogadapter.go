package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"finsim/internal/domain/product"
	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/shared/logger"
)

const popularityMaxTries = 5

// ProductCatalogAdapter serves the saving use cases from the product
// repository and translates catalog errors into saving errors.
type ProductCatalogAdapter struct {
	repo   product.Repository
	logger logger.Interface
}

func NewProductCatalogAdapter(repo product.Repository, logger logger.Interface) *ProductCatalogAdapter {
	return &ProductCatalogAdapter{repo: repo, logger: logger}
}

func (a *ProductCatalogAdapter) option(ctx context.Context, optionID uint) (*product.Option, error) {
	option, err := a.repo.GetOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, product.ErrOptionNotFound) {
			return nil, fmt.Errorf("%w: option %d", saving.ErrProductNotFound, optionID)
		}
		return nil, err
	}
	return option, nil
}

func (a *ProductCatalogAdapter) SupportedTerms(ctx context.Context, optionID uint) ([]int, error) {
	option, err := a.option(ctx, optionID)
	if err != nil {
		return nil, err
	}
	return option.SupportedTerms(), nil
}

func (a *ProductCatalogAdapter) BestRate(ctx context.Context, optionID uint, term int) (decimal.Decimal, error) {
	option, err := a.option(ctx, optionID)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := option.BestRate(term)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: option %d has no rate for term %d", saving.ErrUnsupportedTerm, optionID, term)
	}
	return rate, nil
}

func (a *ProductCatalogAdapter) RateType(ctx context.Context, optionID uint) (vo.RateType, error) {
	option, err := a.option(ctx, optionID)
	if err != nil {
		return vo.RateTypeSimple, err
	}
	return option.RateType(), nil
}

func (a *ProductCatalogAdapter) ProductName(ctx context.Context, optionID uint) (string, error) {
	option, err := a.option(ctx, optionID)
	if err != nil {
		return "", err
	}
	return option.ProductName(), nil
}

// IncrementPopularity reloads and retries when another subscription bumped
// the same option concurrently.
func (a *ProductCatalogAdapter) IncrementPopularity(ctx context.Context, optionID uint) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		option, err := a.option(ctx, optionID)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		option.IncrementPopularity()
		if err := a.repo.UpdatePopularity(ctx, option); err != nil {
			if errors.Is(err, product.ErrConcurrentModification) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(popularityMaxTries))
	if err != nil {
		a.logger.Debugw("popularity update gave up", "product_option_id", optionID, "error", err)
	}
	return err
}

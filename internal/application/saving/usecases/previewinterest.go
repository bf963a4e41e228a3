package usecases

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"finsim/internal/application/saving/dto"
	"finsim/internal/domain/saving"
)

type PreviewInterestQuery struct {
	ProductOptionID uint
	Term            int
	MonthlyAmount   decimal.Decimal
}

// PreviewInterestUseCase quotes the payout of a fully honored plan before
// the user subscribes.
type PreviewInterestUseCase struct {
	catalog    ProductCatalog
	calculator saving.InterestCalculator
}

func NewPreviewInterestUseCase(catalog ProductCatalog) *PreviewInterestUseCase {
	return &PreviewInterestUseCase{catalog: catalog}
}

func (uc *PreviewInterestUseCase) Execute(ctx context.Context, query PreviewInterestQuery) (*dto.InterestQuoteDTO, error) {
	terms, err := uc.catalog.SupportedTerms(ctx, query.ProductOptionID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(terms, query.Term) {
		return nil, fmt.Errorf("%w: term %d, supported %v", saving.ErrUnsupportedTerm, query.Term, terms)
	}

	rate, err := uc.catalog.BestRate(ctx, query.ProductOptionID, query.Term)
	if err != nil {
		return nil, err
	}
	rateType, err := uc.catalog.RateType(ctx, query.ProductOptionID)
	if err != nil {
		return nil, err
	}

	quote, err := uc.calculator.Calculate(query.MonthlyAmount, query.Term, &rate, rateType)
	if err != nil {
		return nil, err
	}

	return &dto.InterestQuoteDTO{
		ProductOptionID: query.ProductOptionID,
		Term:            query.Term,
		MonthlyAmount:   query.MonthlyAmount,
		RateType:        quote.RateType.String(),
		Rate:            quote.Rate,
		Principal:       quote.Principal,
		Interest:        quote.Interest,
		Tax:             quote.Tax,
		Total:           quote.Total,
	}, nil
}

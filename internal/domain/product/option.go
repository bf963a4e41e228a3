// Package product holds the savings product catalog read model.
package product

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	vo "finsim/internal/domain/saving/valueobjects"
)

var (
	ErrOptionNotFound         = errors.New("product option not found")
	ErrConcurrentModification = errors.New("product option modified concurrently")
)

// OptionRate is the annual rate offered for one term.
type OptionRate struct {
	Term             int
	BaseRate         decimal.Decimal
	PreferentialRate *decimal.Decimal
}

// Best returns the larger of the base and preferential rates.
func (r OptionRate) Best() decimal.Decimal {
	if r.PreferentialRate != nil && r.PreferentialRate.GreaterThan(r.BaseRate) {
		return *r.PreferentialRate
	}
	return r.BaseRate
}

// Option is a subscribable variant of a product. The core only reads it,
// except for the popularity counter.
type Option struct {
	id          uint
	productID   uint
	productName string
	rateLabel   string
	popularity  int64
	rates       []OptionRate
	version     int
}

type OptionReconstructParams struct {
	ID          uint
	ProductID   uint
	ProductName string
	RateLabel   string
	Popularity  int64
	Rates       []OptionRate
	Version     int
}

func ReconstructOption(p OptionReconstructParams) (*Option, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("option ID cannot be zero")
	}
	rates := append([]OptionRate(nil), p.Rates...)
	sort.Slice(rates, func(i, j int) bool { return rates[i].Term < rates[j].Term })
	return &Option{
		id:          p.ID,
		productID:   p.ProductID,
		productName: p.ProductName,
		rateLabel:   p.RateLabel,
		popularity:  p.Popularity,
		rates:       rates,
		version:     p.Version,
	}, nil
}

func (o *Option) ID() uint            { return o.id }
func (o *Option) ProductID() uint     { return o.productID }
func (o *Option) ProductName() string { return o.productName }
func (o *Option) RateLabel() string   { return o.rateLabel }
func (o *Option) Popularity() int64   { return o.popularity }
func (o *Option) Version() int        { return o.version }

// RateType interprets the catalog label.
func (o *Option) RateType() vo.RateType {
	return vo.ParseRateType(o.rateLabel)
}

// SupportedTerms lists the offered terms in ascending order.
func (o *Option) SupportedTerms() []int {
	terms := make([]int, 0, len(o.rates))
	for _, r := range o.rates {
		terms = append(terms, r.Term)
	}
	return terms
}

func (o *Option) SupportsTerm(term int) bool {
	_, ok := o.rateFor(term)
	return ok
}

// BestRate returns the best annual rate for the term, if offered.
func (o *Option) BestRate(term int) (decimal.Decimal, bool) {
	r, ok := o.rateFor(term)
	if !ok {
		return decimal.Zero, false
	}
	return r.Best(), true
}

// IncrementPopularity counts one more subscription to this option.
func (o *Option) IncrementPopularity() {
	o.popularity++
	o.version++
}

func (o *Option) rateFor(term int) (OptionRate, bool) {
	for _, r := range o.rates {
		if r.Term == term {
			return r, true
		}
	}
	return OptionRate{}, false
}

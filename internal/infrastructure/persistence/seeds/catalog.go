// Package seeds loads the savings product catalog from YAML.
package seeds

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finsim/internal/domain/product"
)

type catalogFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	Name    string        `yaml:"name"`
	Options []optionEntry `yaml:"options"`
}

type optionEntry struct {
	RateType string      `yaml:"rate_type"`
	Rates    []rateEntry `yaml:"rates"`
}

type rateEntry struct {
	Term             int    `yaml:"term"`
	BaseRate         string `yaml:"base_rate"`
	PreferentialRate string `yaml:"preferential_rate"`
}

// LoadCatalogFile reads and validates a catalog seed file.
func LoadCatalogFile(path string) ([]product.SeedProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]product.SeedProduct, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]product.SeedProduct, 0, len(file.Products))
	for _, p := range file.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog product without name")
		}
		seed := product.SeedProduct{Name: p.Name}
		for _, o := range p.Options {
			option := product.SeedOption{RateLabel: o.RateType}
			seen := make(map[int]bool, len(o.Rates))
			for _, r := range o.Rates {
				rate, err := parseRate(p.Name, r)
				if err != nil {
					return nil, err
				}
				if seen[r.Term] {
					return nil, fmt.Errorf("product %q: duplicate term %d", p.Name, r.Term)
				}
				seen[r.Term] = true
				option.Rates = append(option.Rates, rate)
			}
			seed.Options = append(seed.Options, option)
		}
		products = append(products, seed)
	}
	return products, nil
}

func parseRate(productName string, r rateEntry) (product.OptionRate, error) {
	if r.Term < 1 {
		return product.OptionRate{}, fmt.Errorf("product %q: invalid term %d", productName, r.Term)
	}
	base, err := decimal.NewFromString(r.BaseRate)
	if err != nil || base.IsNegative() {
		return product.OptionRate{}, fmt.Errorf("product %q term %d: invalid base rate %q", productName, r.Term, r.BaseRate)
	}
	rate := product.OptionRate{Term: r.Term, BaseRate: base}
	if r.PreferentialRate != "" {
		pref, err := decimal.NewFromString(r.PreferentialRate)
		if err != nil || pref.IsNegative() {
			return product.OptionRate{}, fmt.Errorf("product %q term %d: invalid preferential rate %q", productName, r.Term, r.PreferentialRate)
		}
		rate.PreferentialRate = &pref
	}
	return rate, nil
}

// SeedCatalog upserts every product and returns how many were written.
func SeedCatalog(ctx context.Context, repo product.Repository, products []product.SeedProduct) (int, error) {
	for i, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return i, err
		}
	}
	return len(products), nil
}

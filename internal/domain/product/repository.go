package product

import "context"

// SeedProduct describes a product with its options for catalog loading.
type SeedProduct struct {
	Name    string
	Options []SeedOption
}

type SeedOption struct {
	RateLabel string
	Rates     []OptionRate
}

type Repository interface {
	GetOption(ctx context.Context, optionID uint) (*Option, error)
	ListOptions(ctx context.Context) ([]*Option, error)
	// UpdatePopularity persists the counter guarded by the option version.
	UpdatePopularity(ctx context.Context, option *Option) error
	// Upsert creates the product by name or replaces its options and rates.
	Upsert(ctx context.Context, p SeedProduct) (uint, error)
}

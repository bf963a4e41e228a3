package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	savingUsecases "finsim/internal/application/saving/usecases"
	walletUsecases "finsim/internal/application/wallet/usecases"
	"finsim/internal/domain/product"
	"finsim/internal/domain/saving"
	"finsim/internal/infrastructure/adapters"
	"finsim/internal/infrastructure/cache"
	"finsim/internal/infrastructure/config"
	"finsim/internal/infrastructure/repository"
	"finsim/internal/infrastructure/wallet"
	savingHandler "finsim/internal/interfaces/http/handlers/saving"
	"finsim/internal/shared/biztime"
	sharedConfig "finsim/internal/shared/config"
	"finsim/internal/shared/db"
	"finsim/internal/shared/logger"
)

// UseCases groups every application operation the transports expose.
type UseCases struct {
	Open       *savingUsecases.OpenSubscriptionUseCase
	Cancel     *savingUsecases.CancelSubscriptionUseCase
	Deposit    *savingUsecases.DepositNextUseCase
	Settle     *savingUsecases.SettleMaturityUseCase
	Get        *savingUsecases.GetSubscriptionUseCase
	Maturities *savingUsecases.ListPendingMaturitiesUseCase
	Quote      *savingUsecases.PreviewInterestUseCase
	AutoDebit  *savingUsecases.AutoDebitUseCase
	TopUp      *walletUsecases.TopUpUseCase
}

// Container wires repositories, adapters and use cases. HTTP handlers, CLI
// commands and the worker all build on one Container.
type Container struct {
	db    *gorm.DB
	cfg   *config.Config
	log   logger.Interface
	redis *redis.Client
	clock biztime.Clock

	subscriptionRepo saving.SubscriptionRepository
	paymentRepo      saving.PaymentHistoryRepository
	optionRepo       product.Repository
	ledger           *wallet.GormLedger

	UseCases UseCases
}

// NewContainer builds the object graph. redisClient may be nil, in which
// case the auto-debit run guard is disabled.
func NewContainer(cfg *config.Config, database *gorm.DB, redisClient *redis.Client, log logger.Interface) (*Container, error) {
	clock, err := NewClock(cfg.Simulation)
	if err != nil {
		return nil, err
	}

	c := &Container{
		db:               database,
		cfg:              cfg,
		log:              log,
		redis:            redisClient,
		clock:            clock,
		subscriptionRepo: repository.NewSavingSubscriptionRepository(database, log),
		paymentRepo:      repository.NewSavingPaymentHistoryRepository(database),
		optionRepo:       repository.NewProductOptionRepository(database, log),
		ledger:           wallet.NewGormLedger(database, log),
	}

	txMgr := db.NewTransactionManager(database)
	ledger := wallet.NewRetryingLedger(c.ledger, cfg.Saving.WalletRetries, log)
	catalog := adapters.NewProductCatalogAdapter(c.optionRepo, log)

	autoDebitOpts := []savingUsecases.AutoDebitOption{
		savingUsecases.WithConcurrency(cfg.Saving.Concurrency),
	}
	if redisClient != nil {
		autoDebitOpts = append(autoDebitOpts,
			savingUsecases.WithRunGuard(cache.NewAutoDebitRunGuard(redisClient, cfg.Saving.RunGuardTTL)))
	}

	c.UseCases = UseCases{
		Open:       savingUsecases.NewOpenSubscriptionUseCase(c.subscriptionRepo, c.paymentRepo, catalog, txMgr, clock, log),
		Cancel:     savingUsecases.NewCancelSubscriptionUseCase(c.subscriptionRepo, txMgr, clock, log),
		Deposit:    savingUsecases.NewDepositNextUseCase(c.subscriptionRepo, c.paymentRepo, ledger, txMgr, clock, log),
		Settle:     savingUsecases.NewSettleMaturityUseCase(c.subscriptionRepo, c.paymentRepo, catalog, ledger, txMgr, clock, log),
		Get:        savingUsecases.NewGetSubscriptionUseCase(c.subscriptionRepo, c.paymentRepo, catalog, clock, log),
		Maturities: savingUsecases.NewListPendingMaturitiesUseCase(c.subscriptionRepo, catalog, clock, log),
		Quote:      savingUsecases.NewPreviewInterestUseCase(catalog),
		AutoDebit:  savingUsecases.NewAutoDebitUseCase(c.subscriptionRepo, c.paymentRepo, ledger, txMgr, clock, log, autoDebitOpts...),
		TopUp:      walletUsecases.NewTopUpUseCase(ledger, log),
	}

	return c, nil
}

// NewClock returns the wall clock, or a clock pinned to the configured
// simulation date.
func NewClock(cfg sharedConfig.SimulationConfig) (biztime.Clock, error) {
	if cfg.FixedToday == "" {
		return biztime.SystemClock{}, nil
	}
	today, err := biztime.ParseDate(cfg.FixedToday)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation.fixed_today %q: %w", cfg.FixedToday, err)
	}
	return biztime.NewFixedClock(today), nil
}

func (c *Container) SavingHandlerDeps() savingHandler.Deps {
	return savingHandler.Deps{
		Open:       c.UseCases.Open,
		Cancel:     c.UseCases.Cancel,
		Deposit:    c.UseCases.Deposit,
		Settle:     c.UseCases.Settle,
		Get:        c.UseCases.Get,
		Maturities: c.UseCases.Maturities,
		Quote:      c.UseCases.Quote,
		AutoDebit:  c.UseCases.AutoDebit,
	}
}

// ProductRepository exposes the catalog store for seeding.
func (c *Container) ProductRepository() product.Repository {
	return c.optionRepo
}

// Ledger exposes the wallet ledger for balance queries.
func (c *Container) Ledger() *wallet.GormLedger {
	return c.ledger
}

func (c *Container) Logger() logger.Interface {
	return c.log
}

// Clock is the clock every use case reads "today" from.
func (c *Container) Clock() biztime.Clock {
	return c.clock
}

// SettleDueJob adapts the bulk settlement to a scheduler batch job.
func (c *Container) SettleDueJob() func(ctx context.Context) (int, error) {
	return c.UseCases.Settle.SettleDue
}

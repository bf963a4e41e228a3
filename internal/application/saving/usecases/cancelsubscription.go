package usecases

import (
	"context"
	"fmt"

	"finsim/internal/domain/saving"
	"finsim/internal/shared/biztime"
	"finsim/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID         uint
	SubscriptionID uint
}

type CancelSubscriptionUseCase struct {
	subscriptionRepo saving.SubscriptionRepository
	txMgr            TxRunner
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo saving.SubscriptionRepository,
	txMgr TxRunner,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		txMgr:            txMgr,
		clock:            clock,
		logger:           logger,
	}
}

// Execute cancels an ACTIVE subscription. The schedule is left as is.
func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	return uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := lockOwnedSubscription(txCtx, uc.subscriptionRepo, cmd.UserID, cmd.SubscriptionID)
		if err != nil {
			return err
		}

		if err := sub.Cancel(uc.clock.Now()); err != nil {
			return err
		}

		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", cmd.SubscriptionID)
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		uc.logger.Infow("saving subscription canceled",
			"subscription_id", sub.ID(),
			"user_id", sub.UserID(),
		)
		return nil
	})
}

// loadOwnedSubscription hides subscriptions of other users behind not found.
func loadOwnedSubscription(ctx context.Context, repo saving.SubscriptionRepository, userID, subscriptionID uint) (*saving.Subscription, error) {
	sub, err := repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: id %d", saving.ErrSubscriptionNotFound, subscriptionID)
	}
	return sub, nil
}

// lockOwnedSubscription is loadOwnedSubscription under a row lock. It must
// run inside a transaction.
func lockOwnedSubscription(ctx context.Context, repo saving.SubscriptionRepository, userID, subscriptionID uint) (*saving.Subscription, error) {
	sub, err := repo.GetByIDForUpdate(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: id %d", saving.ErrSubscriptionNotFound, subscriptionID)
	}
	return sub, nil
}

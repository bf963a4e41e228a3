package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finsim/internal/shared/biztime"
)

const (
	autoDebitKeyPrefix = "autodebit:"
	// DefaultRunGuardTTL outlives one service day in every timezone.
	DefaultRunGuardTTL = 36 * time.Hour
)

// AutoDebitRunGuard marks a user's auto-debit run for a service day in
// Redis so that several workers do not repeat it.
type AutoDebitRunGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAutoDebitRunGuard(client *redis.Client, ttl time.Duration) *AutoDebitRunGuard {
	if ttl <= 0 {
		ttl = DefaultRunGuardTTL
	}
	return &AutoDebitRunGuard{client: client, ttl: ttl}
}

// Format: autodebit:{user_id}:{yyyymmdd}
func (g *AutoDebitRunGuard) buildKey(userID uint, day time.Time) string {
	return fmt.Sprintf("%s%d:%s", autoDebitKeyPrefix, userID, biztime.CompactDate(day))
}

// TryAcquire claims the run with SetNX. It returns false when another
// worker already claimed (userID, day).
func (g *AutoDebitRunGuard) TryAcquire(ctx context.Context, userID uint, day time.Time) (bool, error) {
	acquired, err := g.client.SetNX(ctx, g.buildKey(userID, day), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire auto-debit run guard: %w", err)
	}
	return acquired, nil
}

// Release drops the claim so the run can be repeated on the same day.
func (g *AutoDebitRunGuard) Release(ctx context.Context, userID uint, day time.Time) error {
	if err := g.client.Del(ctx, g.buildKey(userID, day)).Err(); err != nil {
		return fmt.Errorf("failed to release auto-debit run guard: %w", err)
	}
	return nil
}

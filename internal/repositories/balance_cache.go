package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
)

// BalanceCacheRepository caches account balances in Redis for the read
// side. Staleness is acceptable: the authoritative balance check always
// happens inside the review database transaction.
type BalanceCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached balances
}

// NewBalanceCacheRepository creates a new repository instance with the
// given TTL.
func NewBalanceCacheRepository(client *redis.Client, expiration time.Duration) *BalanceCacheRepository {
	return &BalanceCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func balanceKey(userID uuid.UUID) string {
	return fmt.Sprintf("balance:%s", userID)
}

// Get fetches a cached balance. The second return value reports a hit.
func (r *BalanceCacheRepository) Get(ctx context.Context, userID uuid.UUID) (decimal.Decimal, bool, error) {
	key := balanceKey(userID)

	val, err := r.client.Get(ctx, key).Result()

	logger.Log.Infow(
		"key", key,
		"result", val,
		"error", err,
	)

	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}

	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, err
	}

	return balance, true, nil
}

// Set caches a balance with the configured expiration.
func (r *BalanceCacheRepository) Set(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	key := balanceKey(userID)
	err := r.client.Set(ctx, key, balance.String(), r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"balance", balance,
		"error", err,
	)

	return err
}

// Invalidate drops the cached balance after a committed mutation.
func (r *BalanceCacheRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	key := balanceKey(userID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)

	return err
}

package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
)

type creditRepository struct{}

// NewCreditRepository creates a Redis-backed credit balance repository.
func NewCreditRepository() CreditRepository {
	return &creditRepository{}
}

func (r *creditRepository) Balance(ctx context.Context, userID, productID string) (int64, error) {
	raw, err := keyvalue.HGet(ctx, userCreditsKey(userID), productID)
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	// Storage can hold transient negatives from historical races; access
	// checks must see those as zero.
	if balance < 0 {
		balance = 0
	}
	return balance, nil
}

func (r *creditRepository) Balances(ctx context.Context, userID string) (map[string]int64, error) {
	raw, err := keyvalue.HGetAll(ctx, userCreditsKey(userID))
	if err != nil {
		return nil, err
	}
	balances := make(map[string]int64, len(raw))
	for productID, val := range raw {
		balance, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		if balance < 0 {
			balance = 0
		}
		balances[productID] = balance
	}
	return balances, nil
}

func (r *creditRepository) Grant(ctx context.Context, userID, productID string, n int64) (int64, error) {
	return keyvalue.HIncrBy(ctx, userCreditsKey(userID), productID, n)
}

func (r *creditRepository) ConsumeOne(ctx context.Context, userID, productID string) (bool, error) {
	return keyvalue.HDecrIfPositive(ctx, userCreditsKey(userID), productID)
}

func (r *creditRepository) Refund(ctx context.Context, userID, productID string) error {
	_, err := keyvalue.HIncrBy(ctx, userCreditsKey(userID), productID, 1)
	return err
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
)

const (
	usageCounterTTL = 30 * 24 * time.Hour
	usageLogTTL     = 90 * 24 * time.Hour
	analyticsTTL    = 90 * 24 * time.Hour
)

type analyticsRepository struct{}

// NewAnalyticsRepository creates a Redis-backed analytics repository.
func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepository{}
}

func (r *analyticsRepository) AppendUsage(ctx context.Context, rec *models.UsageRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	date := rec.Timestamp.UTC().Format("2006-01-02")
	if err := keyvalue.RPushWithTTL(ctx, usageLogKey(date), data, usageLogTTL); err != nil {
		return err
	}
	if _, err := keyvalue.IncrWithTTL(ctx, usageCounterKey(rec.UserID, rec.ProductID), usageCounterTTL); err != nil {
		return err
	}
	_, err = keyvalue.IncrWithTTL(ctx, usageTotalKey, 0)
	return err
}

func (r *analyticsRepository) AppendEvent(ctx context.Context, ev *models.AnalyticsEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	date := time.UnixMilli(ev.Timestamp).UTC().Format("2006-01-02")
	return keyvalue.RPushWithTTL(ctx, analyticsKey(date), data, analyticsTTL)
}

func (r *analyticsRepository) AddRevenue(ctx context.Context, date string, amountCents int64) error {
	_, err := keyvalue.HIncrBy(ctx, analyticsRevenueKey, date, amountCents)
	return err
}

func (r *analyticsRepository) RevenueByDay(ctx context.Context) (map[string]int64, error) {
	raw, err := keyvalue.HGetAll(ctx, analyticsRevenueKey)
	if err != nil {
		return nil, err
	}
	revenue := make(map[string]int64, len(raw))
	for date, val := range raw {
		cents, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		revenue[date] = cents
	}
	return revenue, nil
}

func (r *analyticsRepository) UsageCount(ctx context.Context, userID, productID string) (int64, error) {
	return r.counter(ctx, usageCounterKey(userID, productID))
}

func (r *analyticsRepository) TotalUsage(ctx context.Context) (int64, error) {
	return r.counter(ctx, usageTotalKey)
}

func (r *analyticsRepository) counter(ctx context.Context, key string) (int64, error) {
	raw, err := keyvalue.Get(ctx, key)
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

package repository

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
)

type apiKeyRepository struct{}

// NewAPIKeyRepository creates a Redis-backed API key repository.
func NewAPIKeyRepository() APIKeyRepository {
	return &apiKeyRepository{}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *models.ApiKey) error {
	if err := keyvalue.SetJSON(ctx, apiKeyKey(key.Key), key, 0); err != nil {
		return err
	}
	return keyvalue.SAdd(ctx, userAPIKeysKey(key.UserID), key.Key)
}

func (r *apiKeyRepository) GetByKey(ctx context.Context, key string) (*models.ApiKey, error) {
	var record models.ApiKey
	if err := keyvalue.GetJSON(ctx, apiKeyKey(key), &record); err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *apiKeyRepository) ListByUser(ctx context.Context, userID string) ([]models.ApiKey, error) {
	keys, err := keyvalue.SMembers(ctx, userAPIKeysKey(userID))
	if err != nil {
		return nil, err
	}

	records := make([]models.ApiKey, 0, len(keys))
	for _, key := range keys {
		record, err := r.GetByKey(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Warnf("api key in set for user %s has no record", userID)
				continue
			}
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (r *apiKeyRepository) Save(ctx context.Context, key *models.ApiKey) error {
	return keyvalue.SetJSON(ctx, apiKeyKey(key.Key), key, 0)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
)

type purchaseRepository struct{}

// NewPurchaseRepository creates a Redis-backed purchase repository.
func NewPurchaseRepository() PurchaseRepository {
	return &purchaseRepository{}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := keyvalue.SetJSON(ctx, purchaseKey(purchase.ID), purchase, 0); err != nil {
		return err
	}
	if err := keyvalue.SAdd(ctx, userPurchasesKey(purchase.UserID), purchase.ID); err != nil {
		return err
	}
	// Transaction-id index makes completion lookup O(1) without knowing the
	// owning user in advance.
	return keyvalue.Set(ctx, purchaseTxnKey(purchase.TransactionID), purchase.ID)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := keyvalue.GetJSON(ctx, purchaseKey(id), &purchase); err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Purchase, error) {
	id, err := keyvalue.Get(ctx, purchaseTxnKey(transactionID))
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	ids, err := keyvalue.SMembers(ctx, userPurchasesKey(userID))
	if err != nil {
		return nil, err
	}

	purchases := make([]models.Purchase, 0, len(ids))
	for _, id := range ids {
		purchase, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Warnf("purchase %s in set for user %s has no record", id, userID)
				continue
			}
			return nil, err
		}
		purchases = append(purchases, *purchase)
	}
	return purchases, nil
}

func (r *purchaseRepository) Save(ctx context.Context, purchase *models.Purchase) error {
	return keyvalue.SetJSON(ctx, purchaseKey(purchase.ID), purchase, 0)
}

// completionClaimTTL bounds how long a crashed claim holder can block a
// pending purchase. After expiry the provider's next redelivery re-claims
// and grants.
const completionClaimTTL = 10 * time.Minute

func (r *purchaseRepository) BeginCompletion(ctx context.Context, purchaseID string) (bool, error) {
	return keyvalue.SetNX(ctx, completionKey(purchaseID), 1, completionClaimTTL)
}

func (r *purchaseRepository) ReleaseCompletion(ctx context.Context, purchaseID string) {
	if err := keyvalue.Delete(ctx, completionKey(purchaseID)); err != nil {
		log.Errorf("could not release completion claim for purchase %s: %v", purchaseID, err)
	}
}

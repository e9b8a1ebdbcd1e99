package repository

import (
	"context"
	"errors"

	"github.com/FelixBrandt/StackDroid/app/models"
)

var (
	// ErrNotFound is returned when a record does not exist. Callers must
	// treat it as a business condition, distinct from store failures.
	ErrNotFound = errors.New("repository: record not found")

	// ErrExists is returned when a uniqueness constraint would be violated.
	ErrExists = errors.New("repository: record already exists")
)

// UserRepository defines user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// PurchaseRepository defines purchase record persistence. Creation also
// maintains the per-user purchase set and the transaction-id index used for
// O(1) completion lookup.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id string) (*models.Purchase, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]models.Purchase, error)
	Save(ctx context.Context, purchase *models.Purchase) error
	// BeginCompletion atomically claims the one allowed completion of a
	// purchase. Only the caller that gets true may grant entitlements.
	BeginCompletion(ctx context.Context, purchaseID string) (bool, error)
	// ReleaseCompletion gives the claim back after a failed grant so a
	// retry can complete the purchase.
	ReleaseCompletion(ctx context.Context, purchaseID string)
}

// CreditRepository defines the per-(user, product) balance counters.
type CreditRepository interface {
	Balance(ctx context.Context, userID, productID string) (int64, error)
	Balances(ctx context.Context, userID string) (map[string]int64, error)
	Grant(ctx context.Context, userID, productID string, n int64) (int64, error)
	// ConsumeOne atomically decrements the balance by one only when it is
	// positive, reporting whether a unit was taken.
	ConsumeOne(ctx context.Context, userID, productID string) (bool, error)
	Refund(ctx context.Context, userID, productID string) error
}

// APIKeyRepository defines issued product key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.ApiKey) error
	GetByKey(ctx context.Context, key string) (*models.ApiKey, error)
	ListByUser(ctx context.Context, userID string) ([]models.ApiKey, error)
	Save(ctx context.Context, key *models.ApiKey) error
}

// AnalyticsRepository defines the append-only usage and revenue channels.
type AnalyticsRepository interface {
	AppendUsage(ctx context.Context, rec *models.UsageRecord) error
	AppendEvent(ctx context.Context, ev *models.AnalyticsEvent) error
	AddRevenue(ctx context.Context, date string, amountCents int64) error
	RevenueByDay(ctx context.Context) (map[string]int64, error)
	UsageCount(ctx context.Context, userID, productID string) (int64, error)
	TotalUsage(ctx context.Context) (int64, error)
}

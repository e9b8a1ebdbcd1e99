package entitlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixBrandt/StackDroid/app/models"
)

type fakePurchaseRepo struct {
	mu        sync.Mutex
	purchases []models.Purchase
	listErr   error
}

func (f *fakePurchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purchases = append(f.purchases, *p)
	return nil
}

func (f *fakePurchaseRepo) GetByID(ctx context.Context, id string) (*models.Purchase, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePurchaseRepo) GetByTransactionID(ctx context.Context, txnID string) (*models.Purchase, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePurchaseRepo) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Purchase, 0, len(f.purchases))
	for _, p := range f.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePurchaseRepo) Save(ctx context.Context, p *models.Purchase) error { return nil }

func (f *fakePurchaseRepo) BeginCompletion(ctx context.Context, id string) (bool, error) {
	return true, nil
}
func (f *fakePurchaseRepo) ReleaseCompletion(ctx context.Context, id string) {}

type fakeCreditRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	readErr  error
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{balances: make(map[string]int64)}
}

func (f *fakeCreditRepo) key(userID, productID string) string { return userID + "/" + productID }

func (f *fakeCreditRepo) Balance(ctx context.Context, userID, productID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	b := f.balances[f.key(userID, productID)]
	if b < 0 {
		b = 0
	}
	return b, nil
}

func (f *fakeCreditRepo) Balances(ctx context.Context, userID string) (map[string]int64, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCreditRepo) Grant(ctx context.Context, userID, productID string, n int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[f.key(userID, productID)] += n
	return f.balances[f.key(userID, productID)], nil
}

func (f *fakeCreditRepo) ConsumeOne(ctx context.Context, userID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[f.key(userID, productID)] <= 0 {
		return false, nil
	}
	f.balances[f.key(userID, productID)]--
	return true, nil
}

func (f *fakeCreditRepo) Refund(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[f.key(userID, productID)]++
	return nil
}

func completedPurchase(userID, productID, mode string) models.Purchase {
	now := time.Now().UTC()
	return models.Purchase{
		ID:          "p-" + productID,
		UserID:      userID,
		ProductID:   productID,
		Mode:        mode,
		Status:      models.PURCHASE_STATUS_COMPLETED,
		CompletedAt: &now,
	}
}

func TestCheckAccessFullLicense(t *testing.T) {
	t.Parallel()

	purchases := &fakePurchaseRepo{}
	credits := newFakeCreditRepo()
	purchases.purchases = []models.Purchase{completedPurchase("u1", "linkedin-lead-gen", models.PURCHASE_MODE_FULL)}

	engine := NewEngine(purchases, credits)
	access, err := engine.CheckAccess(context.Background(), "u1", "linkedin-lead-gen")

	require.NoError(t, err)
	assert.True(t, access.Allowed)
	assert.Equal(t, ModeFull, access.Mode)
}

func TestCheckAccessFullLicenseBeatsCredits(t *testing.T) {
	t.Parallel()

	purchases := &fakePurchaseRepo{}
	credits := newFakeCreditRepo()
	purchases.purchases = []models.Purchase{completedPurchase("u1", "linkedin-lead-gen", models.PURCHASE_MODE_FULL)}
	_, _ = credits.Grant(context.Background(), "u1", "linkedin-lead-gen", 3)

	engine := NewEngine(purchases, credits)
	access, err := engine.CheckAccess(context.Background(), "u1", "linkedin-lead-gen")

	require.NoError(t, err)
	assert.Equal(t, ModeFull, access.Mode)
}

func TestCheckAccessCreditMode(t *testing.T) {
	t.Parallel()

	purchases := &fakePurchaseRepo{}
	credits := newFakeCreditRepo()
	_, _ = credits.Grant(context.Background(), "u1", "social-orchestrator", 2)

	engine := NewEngine(purchases, credits)
	access, err := engine.CheckAccess(context.Background(), "u1", "social-orchestrator")

	require.NoError(t, err)
	assert.True(t, access.Allowed)
	assert.Equal(t, ModeCredit, access.Mode)
}

func TestCheckAccessDenied(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&fakePurchaseRepo{}, newFakeCreditRepo())
	access, err := engine.CheckAccess(context.Background(), "u1", "social-orchestrator")

	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, ModeNone, access.Mode)
}

func TestCheckAccessPendingPurchaseDoesNotGrant(t *testing.T) {
	t.Parallel()

	purchases := &fakePurchaseRepo{}
	purchases.purchases = []models.Purchase{{
		ID:        "p-1",
		UserID:    "u1",
		ProductID: "linkedin-lead-gen",
		Mode:      models.PURCHASE_MODE_FULL,
		Status:    models.PURCHASE_STATUS_PENDING,
	}}

	engine := NewEngine(purchases, newFakeCreditRepo())
	access, err := engine.CheckAccess(context.Background(), "u1", "linkedin-lead-gen")

	require.NoError(t, err)
	assert.False(t, access.Allowed)
}

func TestCheckAccessStoreErrorPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	purchases := &fakePurchaseRepo{listErr: storeErr}

	engine := NewEngine(purchases, newFakeCreditRepo())
	_, err := engine.CheckAccess(context.Background(), "u1", "linkedin-lead-gen")

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestCheckAccessBalanceErrorPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("timeout")
	credits := newFakeCreditRepo()
	credits.readErr = storeErr

	engine := NewEngine(&fakePurchaseRepo{}, credits)
	_, err := engine.CheckAccess(context.Background(), "u1", "linkedin-lead-gen")

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestConsumeTakesExactlyBalance(t *testing.T) {
	t.Parallel()

	credits := newFakeCreditRepo()
	_, _ = credits.Grant(context.Background(), "u1", "market-intelligence", 2)

	engine := NewEngine(&fakePurchaseRepo{}, credits)

	for i := 0; i < 2; i++ {
		taken, err := engine.Consume(context.Background(), "u1", "market-intelligence")
		require.NoError(t, err)
		assert.True(t, taken)
	}

	taken, err := engine.Consume(context.Background(), "u1", "market-intelligence")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestConsumeConcurrentNeverOverspends(t *testing.T) {
	t.Parallel()

	const workers = 50
	credits := newFakeCreditRepo()
	_, _ = credits.Grant(context.Background(), "u1", "linkedin-lead-gen", 1)

	engine := NewEngine(&fakePurchaseRepo{}, credits)

	var wg sync.WaitGroup
	var takenCount int64
	var mu sync.Mutex
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taken, err := engine.Consume(context.Background(), "u1", "linkedin-lead-gen")
			assert.NoError(t, err)
			if taken {
				mu.Lock()
				takenCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), takenCount)

	balance, err := credits.Balance(context.Background(), "u1", "linkedin-lead-gen")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestRefundRestoresBalance(t *testing.T) {
	t.Parallel()

	credits := newFakeCreditRepo()
	_, _ = credits.Grant(context.Background(), "u1", "linkedin-lead-gen", 1)

	engine := NewEngine(&fakePurchaseRepo{}, credits)

	taken, err := engine.Consume(context.Background(), "u1", "linkedin-lead-gen")
	require.NoError(t, err)
	require.True(t, taken)

	require.NoError(t, engine.Refund(context.Background(), "u1", "linkedin-lead-gen"))

	balance, err := credits.Balance(context.Background(), "u1", "linkedin-lead-gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)
}

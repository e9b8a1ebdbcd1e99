package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
	"github.com/FelixBrandt/StackDroid/internal/pkg/mail"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metrics"
)

var (
	ErrUnknownProduct     = errors.New("ledger: unknown product")
	ErrInactiveProduct    = errors.New("ledger: product is not purchasable")
	ErrPriceMismatch      = errors.New("ledger: amount does not match catalog price")
	ErrUnknownTransaction = errors.New("ledger: unknown transaction")

	// ErrCompletionInProgress means another delivery holds the completion
	// claim but its grant has not been persisted yet. Callers must not ack
	// the transaction; a retry after the claim expires will grant.
	ErrCompletionInProgress = errors.New("ledger: completion in progress")
)

// Service records purchase intents and transitions them to completed,
// granting entitlements exactly once per transaction.
type Service struct {
	purchases repository.PurchaseRepository
	credits   repository.CreditRepository
	apiKeys   repository.APIKeyRepository
	analytics repository.AnalyticsRepository
	users     repository.UserRepository
}

// NewService creates a ledger service from injected repositories.
func NewService(repos *repository.Repositories) *Service {
	return &Service{
		purchases: repos.Purchase,
		credits:   repos.Credit,
		apiKeys:   repos.APIKey,
		analytics: repos.Analytics,
		users:     repos.User,
	}
}

// CreateIntent validates and persists a pending purchase. The catalog price
// is authoritative: a client-supplied amount that does not match it is
// rejected before any provider call is recorded.
func (s *Service) CreateIntent(ctx context.Context, userID, productID, mode, provider, transactionID string, amountCents int64) (*models.Purchase, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(transactionID) == "" {
		return nil, errors.New("ledger: user_id and transaction_id are required")
	}

	product, ok := catalog.GetByID(productID)
	if !ok {
		return nil, ErrUnknownProduct
	}
	if product.Status != catalog.STATUS_ACTIVE {
		return nil, ErrInactiveProduct
	}

	expected, err := catalog.PriceCents(productID, mode)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if amountCents != expected {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPriceMismatch, amountCents, expected)
	}

	purchase, err := models.NewPurchase(userID, productID, product.Kind, mode, provider, transactionID, amountCents)
	if err != nil {
		return nil, err
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("ledger: persist purchase intent: %w", err)
	}
	return purchase, nil
}

// Complete transitions the purchase behind a provider transaction to
// completed and grants its entitlement. Safe under duplicate delivery: the
// pending-to-completed transition is claimed atomically in the store, and
// any later caller gets the already-completed record back unchanged with
// alreadyCompleted set.
func (s *Service) Complete(ctx context.Context, transactionID string) (*models.Purchase, bool, error) {
	purchase, err := s.purchases.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrUnknownTransaction
		}
		return nil, false, fmt.Errorf("ledger: look up transaction: %w", err)
	}
	if purchase.IsCompleted() {
		return purchase, true, nil
	}

	claimed, err := s.purchases.BeginCompletion(ctx, purchase.ID)
	if err != nil {
		return nil, false, fmt.Errorf("ledger: claim completion: %w", err)
	}
	if !claimed {
		// Another delivery holds the claim. Its result only counts once the
		// completed record is persisted; a still-pending purchase means the
		// holder died mid-grant, so the delivery must fail and be retried
		// after the claim expires.
		current, err := s.purchases.GetByID(ctx, purchase.ID)
		if err != nil {
			return nil, false, fmt.Errorf("ledger: reload purchase: %w", err)
		}
		if !current.IsCompleted() {
			return nil, false, fmt.Errorf("%w: purchase %s", ErrCompletionInProgress, purchase.ID)
		}
		return current, true, nil
	}

	if err := s.grant(ctx, purchase); err != nil {
		// Release the claim so a retry can grant instead of being treated
		// as a duplicate of a grant that never happened.
		s.purchases.ReleaseCompletion(ctx, purchase.ID)
		return nil, false, err
	}

	now := time.Now().UTC()
	purchase.Status = models.PURCHASE_STATUS_COMPLETED
	purchase.CompletedAt = &now
	if err := s.purchases.Save(ctx, purchase); err != nil {
		return nil, false, fmt.Errorf("ledger: persist completion: %w", err)
	}

	metrics.PurchasesCompletedTotal.WithLabelValues(purchase.Mode).Inc()

	// Best-effort revenue side channel, not an authoritative ledger.
	date := now.Format("2006-01-02")
	if err := s.analytics.AddRevenue(ctx, date, purchase.AmountCents); err != nil {
		log.Errorf("revenue analytics write failed for purchase %s: %v", purchase.ID, err)
	}

	s.sendReceipt(ctx, purchase)

	return purchase, false, nil
}

// sendReceipt mails the buyer after a completed purchase. Receipts are
// best-effort; a missing mailer config or send failure is only logged.
func (s *Service) sendReceipt(ctx context.Context, purchase *models.Purchase) {
	user, err := s.users.GetByID(ctx, purchase.UserID)
	if err != nil {
		log.Warnf("receipt skipped, user %s lookup failed: %v", purchase.UserID, err)
		return
	}

	productName := purchase.ProductID
	if product, ok := catalog.GetByID(purchase.ProductID); ok {
		productName = product.Name
	}

	go func() {
		if err := mail.SendPurchaseReceipt(user.Email, productName, purchase.Mode, purchase.AmountCents); err != nil {
			log.Warnf("receipt mail for purchase %s failed: %v", purchase.ID, err)
		}
	}()
}

// Fail marks the purchase behind a transaction as failed. A completed
// purchase is never demoted; no entitlement is ever granted for a
// non-success capture.
func (s *Service) Fail(ctx context.Context, transactionID string) (*models.Purchase, error) {
	purchase, err := s.purchases.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownTransaction
		}
		return nil, fmt.Errorf("ledger: look up transaction: %w", err)
	}
	if purchase.IsCompleted() {
		return purchase, nil
	}

	purchase.Status = models.PURCHASE_STATUS_FAILED
	if err := s.purchases.Save(ctx, purchase); err != nil {
		return nil, fmt.Errorf("ledger: persist failure: %w", err)
	}
	return purchase, nil
}

// grant issues the entitlement for a freshly claimed completion: one API
// key for a full license, one credit for a per-use purchase.
func (s *Service) grant(ctx context.Context, purchase *models.Purchase) error {
	switch purchase.Mode {
	case models.PURCHASE_MODE_FULL:
		key, err := models.NewApiKey(purchase.UserID, purchase.ProductID, purchase.Kind)
		if err != nil {
			return fmt.Errorf("ledger: generate api key: %w", err)
		}
		if err := s.apiKeys.Create(ctx, key); err != nil {
			return fmt.Errorf("ledger: persist api key: %w", err)
		}
		purchase.APIKey = key.Key
	case models.PURCHASE_MODE_PER_USE:
		if _, err := s.credits.Grant(ctx, purchase.UserID, purchase.ProductID, 1); err != nil {
			return fmt.Errorf("ledger: grant credit: %w", err)
		}
	default:
		return fmt.Errorf("ledger: unknown purchase mode %q", purchase.Mode)
	}
	return nil
}

package entitlement

import (
	"context"
	"fmt"

	"github.com/FelixBrandt/StackDroid/app/repository"
)

// Mode describes how a user is entitled to invoke a product.
type Mode string

const (
	ModeFull   Mode = "full"
	ModeCredit Mode = "credit"
	ModeNone   Mode = "none"
)

// Access is the result of an entitlement decision.
type Access struct {
	Allowed bool `json:"allowed"`
	Mode    Mode `json:"mode"`
}

// Engine decides whether a user may invoke a product and debits usage.
// It never caches balances or purchases in process; the store is the single
// source of truth between concurrent requests.
type Engine struct {
	purchases repository.PurchaseRepository
	credits   repository.CreditRepository
}

func NewEngine(purchases repository.PurchaseRepository, credits repository.CreditRepository) *Engine {
	return &Engine{purchases: purchases, credits: credits}
}

// CheckAccess reports whether the user may invoke the product and in which
// mode. Read-only: a full license wins over credits, a positive credit
// balance grants metered access, otherwise access is denied. Store errors
// propagate so callers can tell "cannot determine access" from "denied".
func (e *Engine) CheckAccess(ctx context.Context, userID, productID string) (Access, error) {
	full, err := e.hasFullLicense(ctx, userID, productID)
	if err != nil {
		return Access{}, err
	}
	if full {
		return Access{Allowed: true, Mode: ModeFull}, nil
	}

	balance, err := e.credits.Balance(ctx, userID, productID)
	if err != nil {
		return Access{}, fmt.Errorf("entitlement: read credit balance: %w", err)
	}
	if balance > 0 {
		return Access{Allowed: true, Mode: ModeCredit}, nil
	}
	return Access{Allowed: false, Mode: ModeNone}, nil
}

// Consume takes one credit for a metered invocation. The decrement happens
// only when the balance is positive and as a single atomic step in the
// store, so concurrent invocations can never drive the balance negative.
// A full license must be checked before calling; license holders are not
// debited. Returns false without error when no credit was available.
func (e *Engine) Consume(ctx context.Context, userID, productID string) (bool, error) {
	taken, err := e.credits.ConsumeOne(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("entitlement: consume credit: %w", err)
	}
	return taken, nil
}

// Refund returns a previously consumed credit after a failed execution, so
// only successful metered use costs a credit. A refund failure is an
// accounting anomaly the caller must report, never swallow.
func (e *Engine) Refund(ctx context.Context, userID, productID string) error {
	if err := e.credits.Refund(ctx, userID, productID); err != nil {
		return fmt.Errorf("entitlement: refund credit: %w", err)
	}
	return nil
}

func (e *Engine) hasFullLicense(ctx context.Context, userID, productID string) (bool, error) {
	purchases, err := e.purchases.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("entitlement: list purchases: %w", err)
	}
	for i := range purchases {
		if purchases[i].ProductID == productID && purchases[i].GrantsFullLicense() {
			return true, nil
		}
	}
	return false, nil
}

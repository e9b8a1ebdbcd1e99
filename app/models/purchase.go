package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	KIND_AUTOMATION = "automation"
	KIND_SCRAPER    = "scraper"

	PURCHASE_MODE_PER_USE = "per-use"
	PURCHASE_MODE_FULL    = "full"

	PURCHASE_STATUS_PENDING   = "pending"
	PURCHASE_STATUS_COMPLETED = "completed"
	PURCHASE_STATUS_FAILED    = "failed"

	PROVIDER_STRIPE = "stripe"
	PROVIDER_PAYPAL = "paypal"
)

// Purchase records one payment intent. It is created pending and mutated
// exactly once, on provider confirmation.
type Purchase struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id" validate:"required"`
	ProductID     string     `json:"product_id" validate:"required"`
	Kind          string     `json:"kind" validate:"oneof=automation scraper"`
	Mode          string     `json:"mode" validate:"oneof=per-use full"`
	AmountCents   int64      `json:"amount_cents" validate:"gt=0"`
	Status        string     `json:"status" validate:"oneof=pending completed failed"`
	Provider      string     `json:"provider" validate:"oneof=stripe paypal"`
	TransactionID string     `json:"transaction_id" validate:"required"`
	APIKey        string     `json:"api_key,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func (p *Purchase) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

func NewPurchase(userID, productID, kind, mode, provider, transactionID string, amountCents int64) (*Purchase, error) {
	p := &Purchase{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProductID:     productID,
		Kind:          kind,
		Mode:          mode,
		AmountCents:   amountCents,
		Status:        PURCHASE_STATUS_PENDING,
		Provider:      provider,
		TransactionID: transactionID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// IsCompleted reports whether the provider confirmed this purchase.
func (p *Purchase) IsCompleted() bool {
	return p.Status == PURCHASE_STATUS_COMPLETED
}

// GrantsFullLicense reports whether this purchase carries a permanent
// product entitlement.
func (p *Purchase) GrantsFullLicense() bool {
	return p.IsCompleted() && p.Mode == PURCHASE_MODE_FULL
}

package controllers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
	"github.com/FelixBrandt/StackDroid/internal/pkg/ledger"
	"github.com/FelixBrandt/StackDroid/internal/pkg/payments"
	"github.com/FelixBrandt/StackDroid/internal/pkg/usercontext"
)

type checkoutRequest struct {
	ProductID string  `json:"product_id"`
	Mode      string  `json:"mode"`
	Amount    float64 `json:"amount"`
}

func (r *checkoutRequest) amountCents() int64 {
	return int64(math.Round(r.Amount * 100))
}

// HandleStripeIntent creates a Stripe payment intent plus a pending
// purchase record keyed by the intent id. The catalog price is
// authoritative; the client-supplied amount is only accepted when it
// matches it exactly.
func HandleStripeIntent(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	product, err := validateCheckout(&req)
	if err != nil {
		return intentError(c, err)
	}

	intent, err := getStripeClient().CreatePaymentIntent(c.Context(), req.amountCents(), "usd", map[string]string{
		"user_id":    userCtx.UserID,
		"product_id": req.ProductID,
		"kind":       product.Kind,
		"mode":       req.Mode,
	})
	if err != nil {
		log.Errorf("stripe intent create failed: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "infrastructure_error", "Payment provider is unavailable")
	}

	purchase, err := getLedgerService().CreateIntent(c.Context(), userCtx.UserID, req.ProductID, req.Mode, models.PROVIDER_STRIPE, intent.ID, req.amountCents())
	if err != nil {
		return intentError(c, err)
	}

	return c.JSON(fiber.Map{
		"client_secret": intent.ClientSecret,
		"purchase_id":   purchase.ID,
	})
}

// HandleStripeWebhook processes provider completion events. Deliveries are
// verified against the webhook secret and handled idempotently; a duplicate
// succeeded event acknowledges without granting twice.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := getStripeClient().ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Warnf("stripe webhook rejected: %v", err)
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid webhook signature")
	}

	switch event.Type {
	case "payment_intent.succeeded":
		_, already, err := getLedgerService().Complete(c.Context(), event.Data.Object.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrUnknownTransaction) {
				// Not ours; acknowledge so the provider stops retrying.
				log.Warnf("stripe webhook for unknown transaction %s", event.Data.Object.ID)
				break
			}
			log.Errorf("stripe completion failed for %s: %v", event.Data.Object.ID, err)
			// Non-2xx so the provider redelivers and the grant can retry.
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Completion failed")
		}
		if already {
			log.Infof("stripe webhook duplicate for %s", event.Data.Object.ID)
		}
	case "payment_intent.payment_failed":
		if _, err := getLedgerService().Fail(c.Context(), event.Data.Object.ID); err != nil && !errors.Is(err, ledger.ErrUnknownTransaction) {
			log.Errorf("stripe failure handling for %s: %v", event.Data.Object.ID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Event handling failed")
		}
	default:
		// Unhandled event types are acknowledged unprocessed.
	}

	return c.JSON(fiber.Map{"received": true})
}

// HandlePayPalOrder creates a PayPal checkout order plus a pending purchase
// record keyed by the order id.
func HandlePayPalOrder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if _, err := validateCheckout(&req); err != nil {
		return intentError(c, err)
	}

	order, err := getPayPalClient().CreateOrder(c.Context(), req.amountCents())
	if err != nil {
		log.Errorf("paypal order create failed: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "infrastructure_error", "Payment provider is unavailable")
	}

	purchase, err := getLedgerService().CreateIntent(c.Context(), userCtx.UserID, req.ProductID, req.Mode, models.PROVIDER_PAYPAL, order.ID, req.amountCents())
	if err != nil {
		return intentError(c, err)
	}

	return c.JSON(fiber.Map{"order_id": order.ID, "purchase_id": purchase.ID})
}

type paypalCaptureRequest struct {
	OrderID string `json:"order_id"`
}

// HandlePayPalCapture captures an approved order and completes the pending
// purchase behind it. Only a COMPLETED capture grants anything.
func HandlePayPalCapture(c *fiber.Ctx) error {
	var req paypalCaptureRequest
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "order_id is required")
	}

	order, err := getPayPalClient().CaptureOrder(c.Context(), req.OrderID)
	if err != nil {
		log.Errorf("paypal capture failed for %s: %v", req.OrderID, err)
		return jsonError(c, fiber.StatusBadGateway, "infrastructure_error", "Payment provider is unavailable")
	}

	if order.Status != payments.PayPalOrderCompleted {
		if _, err := getLedgerService().Fail(c.Context(), req.OrderID); err != nil && !errors.Is(err, ledger.ErrUnknownTransaction) {
			log.Errorf("paypal failure handling for %s: %v", req.OrderID, err)
		}
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Payment was not completed")
	}

	purchase, already, err := getLedgerService().Complete(c.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownTransaction) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown order")
		}
		log.Errorf("paypal completion failed for %s: %v", req.OrderID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Completion failed")
	}

	resp := fiber.Map{
		"success":           true,
		"already_completed": already,
		"purchase_id":       purchase.ID,
		"mode":              purchase.Mode,
	}
	if purchase.APIKey != "" {
		resp["api_key"] = purchase.APIKey
	}
	return c.JSON(resp)
}

// validateCheckout rejects an invalid product, mode or amount before any
// provider call happens, so mismatched payments are never even initiated.
func validateCheckout(req *checkoutRequest) (*catalog.Product, error) {
	product, ok := catalog.GetByID(req.ProductID)
	if !ok {
		return nil, ledger.ErrUnknownProduct
	}
	if product.Status != catalog.STATUS_ACTIVE {
		return nil, ledger.ErrInactiveProduct
	}
	expected, err := catalog.PriceCents(req.ProductID, req.Mode)
	if err != nil {
		return nil, catalog.ErrUnknownMode
	}
	if req.amountCents() != expected {
		return nil, ledger.ErrPriceMismatch
	}
	return product, nil
}

func intentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrUnknownProduct):
		return jsonError(c, fiber.StatusNotFound, "unknown_product", "Unknown product")
	case errors.Is(err, ledger.ErrInactiveProduct):
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Product is not purchasable")
	case errors.Is(err, catalog.ErrUnknownMode):
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "mode must be per-use or full")
	case errors.Is(err, ledger.ErrPriceMismatch):
		return jsonError(c, fiber.StatusBadRequest, "price_mismatch", "Amount does not match the catalog price")
	default:
		log.Errorf("purchase intent failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Purchase could not be recorded")
	}
}

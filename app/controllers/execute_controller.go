package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
	"github.com/FelixBrandt/StackDroid/internal/pkg/dispatch"
	"github.com/FelixBrandt/StackDroid/internal/pkg/entitlement"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metrics"
	"github.com/FelixBrandt/StackDroid/internal/pkg/usercontext"
)

type executeRequest struct {
	ProductID string          `json:"product_id"`
	Params    dispatch.Params `json:"params"`
}

// HandleExecuteAutomation runs an automation product for the caller.
func HandleExecuteAutomation(c *fiber.Ctx) error {
	return executeProduct(c, models.KIND_AUTOMATION)
}

// HandleExecuteScraper runs a scraper product for the caller.
func HandleExecuteScraper(c *fiber.Ctx) error {
	return executeProduct(c, models.KIND_SCRAPER)
}

// executeProduct is the gated execution path: entitlement check, atomic
// credit debit for metered callers, dispatch, then usage metering. A failed
// execution refunds the consumed credit, so only successful metered runs
// cost one.
func executeProduct(c *fiber.Ctx, kind string) error {
	userCtx := usercontext.GetUserContext(c)

	var req executeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}
	if req.ProductID == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "product_id is required")
	}
	if req.Params == nil {
		req.Params = dispatch.Params{}
	}
	productID := req.ProductID

	product, ok := catalog.GetByID(productID)
	if !ok || product.Kind != kind {
		return jsonError(c, fiber.StatusNotFound, "unknown_product", "Unknown product")
	}
	if product.Status != catalog.STATUS_ACTIVE {
		return jsonError(c, fiber.StatusForbidden, "access_denied", "Product is not available")
	}

	// A product API key only opens its own product.
	if userCtx.APIKeyProductID != "" && userCtx.APIKeyProductID != productID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "API key is not valid for this product")
	}

	engine := getEntitlementEngine()
	access, err := engine.CheckAccess(c.Context(), userCtx.UserID, productID)
	if err != nil {
		log.Errorf("entitlement check failed for user=%s product=%s: %v", userCtx.UserID, productID, err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Entitlement check failed")
	}
	if !access.Allowed {
		return jsonError(c, fiber.StatusForbidden, "access_denied", "Purchase this product or buy credits to run it")
	}

	// Metered callers pay up front; the debit is atomic so concurrent
	// requests can never spend the same credit twice.
	debited := false
	if access.Mode == entitlement.ModeCredit {
		taken, err := engine.Consume(c.Context(), userCtx.UserID, productID)
		if err != nil {
			log.Errorf("credit consume failed for user=%s product=%s: %v", userCtx.UserID, productID, err)
			return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Credit debit failed")
		}
		if !taken {
			// Lost the last credit to a concurrent request.
			return jsonError(c, fiber.StatusForbidden, "access_denied", "No credits remaining")
		}
		debited = true
		metrics.CreditsConsumedTotal.Inc()
	}

	result, execErr := dispatch.Execute(c.Context(), productID, req.Params)
	metering := getMeteringService()

	if execErr != nil {
		if debited {
			if err := engine.Refund(c.Context(), userCtx.UserID, productID); err != nil {
				metering.ReportAnomaly(c.Context(), userCtx.UserID, productID, "refund_failed", err)
			} else {
				metrics.CreditsRefundedTotal.Inc()
			}
		}
		metering.Record(c.Context(), userCtx.UserID, productID, kind, models.USAGE_OUTCOME_FAILED)
		log.Errorf("execution failed for product=%s: %v", productID, execErr)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Execution failed")
	}

	metering.Record(c.Context(), userCtx.UserID, productID, kind, models.USAGE_OUTCOME_SUCCESS)
	metering.TrackEvent(c.Context(), "product_executed", map[string]interface{}{
		"user_id":    userCtx.UserID,
		"product_id": productID,
		"kind":       kind,
		"mode":       string(access.Mode),
	})

	return c.JSON(fiber.Map{
		"success":           true,
		"result":            result,
		"credits_remaining": remainingCredits(c, userCtx.UserID, productID, access.Mode),
	})
}

// remainingCredits is display data only. A full license reads as unlimited;
// a read failure degrades to zero rather than failing the finished run.
func remainingCredits(c *fiber.Ctx, userID, productID string, mode entitlement.Mode) interface{} {
	if mode == entitlement.ModeFull {
		return "unlimited"
	}
	balance, err := repository.GetGlobalFactory().GetCreditRepository().Balance(c.Context(), userID, productID)
	if err != nil {
		log.Warnf("balance read after execution failed for user=%s product=%s: %v", userID, productID, err)
		return int64(0)
	}
	return balance
}

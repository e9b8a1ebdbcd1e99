package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/usercontext"
	"github.com/FelixBrandt/StackDroid/internal/pkg/utils"
)

// HandleGetProfile returns the authenticated account together with its
// purchase history and remaining credit balances.
func HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	user, err := repos.User.GetByID(c.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		log.Errorf("profile load failed for user=%s: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Profile is temporarily unavailable")
	}

	purchases, err := repos.Purchase.ListByUser(c.Context(), userCtx.UserID)
	if err != nil {
		log.Errorf("purchase list failed for user=%s: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Profile is temporarily unavailable")
	}

	balances, err := repos.Credit.Balances(c.Context(), userCtx.UserID)
	if err != nil {
		log.Errorf("credit balances failed for user=%s: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Profile is temporarily unavailable")
	}

	history := make([]fiber.Map, 0, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		entry := fiber.Map{
			"id":             p.ID,
			"product_id":     p.ProductID,
			"kind":           p.Kind,
			"mode":           p.Mode,
			"amount_cents":   p.AmountCents,
			"status":         p.Status,
			"provider":       p.Provider,
			"transaction_id": p.TransactionID,
			"created_at":     p.CreatedAt,
		}
		if p.CompletedAt != nil {
			entry["completed_at"] = p.CompletedAt
		}
		history = append(history, entry)
	}

	account := user.Public()
	account["avatar_url"] = utils.GetGravatarURL(user.Email, 200)

	return c.JSON(fiber.Map{
		"user":      account,
		"purchases": history,
		"credits":   balances,
	})
}

// HandleListAPIKeys returns the caller's issued product keys, masked.
func HandleListAPIKeys(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetAPIKeyRepository()
	keys, err := repo.ListByUser(c.Context(), userCtx.UserID)
	if err != nil {
		log.Errorf("api key list failed for user=%s: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "API keys are temporarily unavailable")
	}

	out := make([]fiber.Map, 0, len(keys))
	for i := range keys {
		k := &keys[i]
		out = append(out, fiber.Map{
			"key":        k.Masked(),
			"product_id": k.ProductID,
			"kind":       k.Kind,
			"is_active":  k.IsActive,
			"created_at": k.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"api_keys": out})
}

type revokeKeyRequest struct {
	Key string `json:"key"`
}

// HandleRevokeAPIKey deactivates one of the caller's keys. The record stays
// so later requests with the key are rejected as revoked, not unknown.
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req revokeKeyRequest
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "key is required")
	}

	repo := repository.GetGlobalFactory().GetAPIKeyRepository()
	record, err := repo.GetByKey(c.Context(), req.Key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "API key not found")
		}
		log.Errorf("api key lookup failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "API key revocation failed")
	}

	if record.UserID != userCtx.UserID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "API key belongs to another account")
	}

	if record.IsActive {
		record.IsActive = false
		if err := repo.Save(c.Context(), record); err != nil {
			log.Errorf("api key revoke failed: %v", err)
			return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "API key revocation failed")
		}
	}

	return c.JSON(fiber.Map{"success": true, "key": record.Masked()})
}

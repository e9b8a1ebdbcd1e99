package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
	"github.com/FelixBrandt/StackDroid/internal/pkg/usercontext"
)

// HandleListProducts returns the active catalog. Anonymous callers see the
// catalog alone; authenticated callers additionally see their access mode
// per product so the storefront can render buy/run buttons.
func HandleListProducts(c *fiber.Ctx) error {
	kind := c.Query("kind")

	var items []catalog.Product
	if kind != "" {
		items = catalog.ByKind(kind)
	} else {
		items = catalog.Active()
	}

	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.JSON(fiber.Map{"products": items})
	}

	engine := getEntitlementEngine()
	out := make([]fiber.Map, 0, len(items))
	for i := range items {
		p := &items[i]
		entry := fiber.Map{
			"id":                  p.ID,
			"name":                p.Name,
			"kind":                p.Kind,
			"category":            p.Category,
			"description":         p.Description,
			"price_per_use_cents": p.PricePerUseCents,
			"full_purchase_cents": p.FullPurchaseCents,
			"status":              p.Status,
		}
		access, err := engine.CheckAccess(c.Context(), userCtx.UserID, p.ID)
		if err != nil {
			// Catalog stays viewable when the store is down; the caller
			// just loses the personalized access hint.
			entry["access"] = fiber.Map{"allowed": false, "mode": "unknown"}
		} else {
			entry["access"] = access
		}
		out = append(out, entry)
	}

	return c.JSON(fiber.Map{"products": out})
}

// HandleGetProduct returns a single catalog entry.
func HandleGetProduct(c *fiber.Ctx) error {
	product, ok := catalog.GetByID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown_product", "Unknown product")
	}
	return c.JSON(fiber.Map{"product": product})
}

package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/catalog"
)

// HandleAdminAnalytics returns the operator dashboard numbers: account
// count, total and recent revenue, and execution volume.
func HandleAdminAnalytics(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory().GetRepositories()

	userCount, err := repos.User.Count(c.Context())
	if err != nil {
		log.Errorf("admin analytics user count failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Analytics are temporarily unavailable")
	}

	revenue, err := repos.Analytics.RevenueByDay(c.Context())
	if err != nil {
		log.Errorf("admin analytics revenue failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Analytics are temporarily unavailable")
	}

	totalUsage, err := repos.Analytics.TotalUsage(c.Context())
	if err != nil {
		log.Errorf("admin analytics usage failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Analytics are temporarily unavailable")
	}

	var totalCents int64
	for _, cents := range revenue {
		totalCents += cents
	}

	// Last 30 days, oldest first, zero-filled so charts have a full axis.
	type dayRevenue struct {
		Date        string `json:"date"`
		AmountCents int64  `json:"amount_cents"`
	}
	days := make([]dayRevenue, 0, 30)
	now := time.Now().UTC()
	for i := 29; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		days = append(days, dayRevenue{Date: date, AmountCents: revenue[date]})
	}

	return c.JSON(fiber.Map{
		"users": fiber.Map{
			"total": userCount,
		},
		"revenue": fiber.Map{
			"total_cents":  totalCents,
			"last_30_days": days,
		},
		"usage": fiber.Map{
			"total_executions": totalUsage,
		},
		"catalog": fiber.Map{
			"active_products": len(catalog.Active()),
		},
	})
}

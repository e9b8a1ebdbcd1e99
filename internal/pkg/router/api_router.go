package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/FelixBrandt/StackDroid/app/controllers"
	"github.com/FelixBrandt/StackDroid/internal/pkg/constants"
	"github.com/FelixBrandt/StackDroid/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Provider webhooks stay outside the rate limiter; throttling a retry
	// delivery would delay entitlement grants.
	app.Post(constants.StripeWebhookRoute, controllers.HandleStripeWebhook)

	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited", "message": "Too many requests"})
		},
	}))

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", controllers.HandleSignup)
	auth.Post("/signin", controllers.HandleSignin)
	auth.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	// Catalog
	api.Get("/products", controllers.HandleListProducts)
	api.Get("/products/:id", controllers.HandleGetProduct)

	// Account
	user := api.Group("/user", middleware.RequireAuth)
	user.Get("/profile", controllers.HandleGetProfile)
	user.Get("/apikeys", controllers.HandleListAPIKeys)
	user.Post("/apikeys/revoke", controllers.HandleRevokeAPIKey)

	// Checkout
	payments := api.Group("/payments", middleware.RequireAuth)
	payments.Post("/stripe", controllers.HandleStripeIntent)
	payments.Post("/paypal", controllers.HandlePayPalOrder)
	payments.Post("/paypal/capture", controllers.HandlePayPalCapture)

	// Gated execution, session or product API key
	api.Post("/automations/execute", middleware.APIKeyOrSessionAuth(), controllers.HandleExecuteAutomation)
	api.Post("/scrapers/execute", middleware.APIKeyOrSessionAuth(), controllers.HandleExecuteScraper)

	// Operator dashboard
	admin := api.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Get("/analytics", controllers.HandleAdminAnalytics)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

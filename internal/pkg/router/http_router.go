package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/StackDroid/internal/pkg/constants"
	"github.com/FelixBrandt/StackDroid/internal/pkg/middleware"
	"github.com/FelixBrandt/StackDroid/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete user context for a request.
// APIKeyProductID is set when the request authenticated with a product API
// key; such requests are scoped to that one product.
type UserContext struct {
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	IsLoggedIn      bool   `json:"is_logged_in"`
	IsAdmin         bool   `json:"is_admin"`
	APIKeyProductID string `json:"api_key_product_id,omitempty"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or empty string if not logged in
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}

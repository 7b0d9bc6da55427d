package handler

import "github.com/gofiber/fiber/v2"

// requestIdentity returns the opaque user identity bound to the request.
// The JWT middleware stores it in locals; development mode falls back to the
// user_id query parameter. Validation happens in the service layer so the
// invalid-identity path stays in one place.
func requestIdentity(c *fiber.Ctx) string {
	if value := c.Locals("user_id"); value != nil {
		if id, ok := value.(string); ok && id != "" {
			return id
		}
	}
	return c.Query("user_id")
}

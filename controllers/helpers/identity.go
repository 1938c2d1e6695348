package helpers

import "github.com/gofiber/fiber/v2"

// SystemUser attributes history events created without an authenticated
// caller (imports, scripted confirmations).
const SystemUser = 0

// ActingUser returns the authenticated user's id from the request context,
// or the system sentinel when absent.
func ActingUser(ctx *fiber.Ctx) int {
	if userID, ok := ctx.Locals("userID").(float64); ok {
		return int(userID)
	}
	return SystemUser
}

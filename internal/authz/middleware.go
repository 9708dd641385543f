package authz

import (
	"lexfirm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole guards a route group with a coarse role check. Finer,
// entity-aware policies run inside the handlers via the predicates.
func RequireRole(allowed ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := PrincipalFrom(c)
		if err != nil {
			return err
		}

		for _, r := range allowed {
			if r == p.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "you do not have permission for this action")
	}
}

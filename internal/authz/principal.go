package authz

import (
	"lexfirm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CtxPrincipalKey is where the identity middleware stores the Principal.
const CtxPrincipalKey = "principal"

// Principal is the authenticated caller. Rank is resolved eagerly at
// sign-in resolution time and cached for the request, so predicates never
// have to fetch it themselves.
type Principal struct {
	UserID   uint               `json:"user_id"`
	Role     models.UserRole    `json:"role"`
	LawyerID *uint              `json:"lawyer_id,omitempty"`
	Rank     *models.LawyerRank `json:"rank,omitempty"`
}

// PrincipalFrom extracts the Principal set by the identity middleware.
func PrincipalFrom(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(CtxPrincipalKey).(Principal)
	if !ok {
		return Principal{}, fiber.NewError(fiber.StatusUnauthorized, "not signed in")
	}
	return p, nil
}

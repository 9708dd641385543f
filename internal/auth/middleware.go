package auth

import (
	"strings"
	"time"

	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the signed session token; http-only, never exposed
// in response bodies.
const SessionCookie = "session"

// Middleware resolves the authenticated principal and stores it in Locals.
// Any verification failure clears the cookie and returns 401.
func Middleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			// Bearer fallback for API clients and tests.
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not signed in")
		}

		claims, err := ParseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			clearSession(c, cfg)
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session")
		}

		// The token may outlive the account. A deleted user is signed out.
		var user models.User
		if err := database.DB.Scopes(models.NotDeleted).First(&user, "id = ?", claims.UserID).Error; err != nil {
			clearSession(c, cfg)
			return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
		}

		principal := authz.Principal{
			UserID:   user.ID,
			Role:     user.Role,
			LawyerID: user.LawyerID,
		}

		// Resolve rank eagerly so no downstream check has to re-fetch it.
		if user.Role == models.RoleLawyer && user.LawyerID != nil {
			var lawyer models.Lawyer
			if err := database.DB.Scopes(models.NotDeleted).First(&lawyer, "id = ?", *user.LawyerID).Error; err == nil {
				principal.Rank = &lawyer.Rank
			}
		}

		c.Locals(authz.CtxPrincipalKey, principal)

		return c.Next()
	}
}

func clearSession(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   cfg.Production(),
		SameSite: "Lax",
	})
}

// SetSession issues the session cookie after a successful login.
func SetSession(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(cfg.TokenTTL),
		HTTPOnly: true,
		Secure:   cfg.Production(),
		SameSite: "Lax",
	})
}

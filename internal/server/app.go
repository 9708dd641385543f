// Package server builds the fiber application: middleware, error mapping
// and the full route table.
package server

import (
	"log"
	"strings"

	"lexfirm-backend/internal/activity"
	"lexfirm-backend/internal/auth"
	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/client"
	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/lawyer"
	"lexfirm-backend/internal/matter"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/timeentry"
	"lexfirm-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// errorKind maps HTTP statuses to the stable machine-checkable kinds the
// frontend switches on.
func errorKind(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "unauthenticated"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusBadRequest:
		return "validation_failed"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusGatewayTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": fiber.Map{
						"kind":    errorKind(e.Code),
						"message": e.Message,
					},
				})
			}
			log.Println("unexpected error:", err)
			body := fiber.Map{"kind": "internal", "message": "unexpected server error"}
			if !cfg.Production() {
				body["detail"] = err.Error()
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": body})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.Middleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler(cfg))

	// Clients
	protected.Post("/clients", client.CreateClientHandler())
	protected.Get("/clients", client.ListClientsHandler())
	protected.Get("/clients/:id", client.GetClientHandler())
	protected.Get("/clients/:id/details", client.GetClientDetailsHandler())
	protected.Put("/clients/:id", client.UpdateClientHandler())
	protected.Delete("/clients/:id", authz.RequireRole(models.RoleAdmin), client.DeleteClientHandler())

	// Matters
	protected.Post("/matters", matter.CreateMatterHandler())
	protected.Get("/matters", matter.ListMattersHandler())
	protected.Get("/matters/deleted", matter.ListDeletedMattersHandler())
	protected.Get("/matters/:id", matter.GetMatterHandler())
	protected.Put("/matters/:id", matter.UpdateMatterHandler())
	protected.Delete("/matters/:id", authz.RequireRole(models.RoleAdmin), matter.DeleteMatterHandler())
	protected.Post("/matters/:id/restore", authz.RequireRole(models.RoleAdmin), matter.RestoreMatterHandler())

	// Lawyers
	protected.Post("/lawyers", lawyer.CreateLawyerHandler())
	protected.Get("/lawyers", lawyer.ListLawyersHandler())
	protected.Get("/lawyers/:id", lawyer.GetLawyerHandler())
	protected.Put("/lawyers/:id", lawyer.UpdateLawyerHandler())
	protected.Delete("/lawyers/:id", authz.RequireRole(models.RoleAdmin), lawyer.DeleteLawyerHandler())

	// Users (full lifecycle is admin territory)
	users := protected.Group("/users")
	users.Use(authz.RequireRole(models.RoleAdmin))
	users.Post("", user.CreateUserHandler())
	users.Get("", user.ListUsersHandler())
	users.Put("/:id", user.UpdateUserHandler())
	users.Delete("/:id", user.DeleteUserHandler())

	// Time entries
	protected.Post("/time-entries", timeentry.CreateTimeEntryHandler())
	protected.Get("/time-entries", timeentry.ListTimeEntriesHandler())
	protected.Put("/time-entries/:id", timeentry.UpdateTimeEntryHandler())
	protected.Delete("/time-entries/:id", timeentry.DeleteTimeEntryHandler())

	// Activity log
	protected.Get("/activity", activity.ListActivityHandler(cfg))

	return app
}

package user

import (
	"fmt"
	"strings"

	"lexfirm-backend/internal/activity"
	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/revision"
	"lexfirm-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserResponse struct {
	ID                    uint            `json:"id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Role                  models.UserRole `json:"role"`
	LawyerID              *uint           `json:"lawyer_id"`
	LastUpdatedBy         *uint           `json:"last_updated_by"`
	LastChangeDescription string          `json:"last_change_description"`
	CreatedAt             string          `json:"created_at"`
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required"`
	LawyerID *uint           `json:"lawyer_id"`
}

type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Role     *models.UserRole `json:"role"`
	LawyerID *uint            `json:"lawyer_id"`
}

func toResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Role:                  u.Role,
		LawyerID:              u.LawyerID,
		LastUpdatedBy:         u.LastUpdatedBy,
		LastChangeDescription: u.LastChangeDescription,
		CreatedAt:             u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// checkLawyerLink enforces one User per Lawyer: the referenced profile
// must exist and not already be linked to another account.
func checkLawyerLink(lawyerID uint, excludeUserID uint) error {
	var l models.Lawyer
	if err := database.DB.Scopes(models.NotDeleted).First(&l, "id = ?", lawyerID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lawyer profile does not exist")
	}

	var count int64
	q := database.DB.Model(&models.User{}).Where("lawyer_id = ? AND is_deleted <> TRUE", lawyerID)
	if excludeUserID != 0 {
		q = q.Where("id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not check lawyer link")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "lawyer profile is already linked to another user")
	}
	return nil
}

// POST /api/users  (admin only, guarded at the route)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if err := validation.Struct(body); err != nil {
			return err
		}
		if !models.ValidRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "role is invalid")
		}

		if body.Role == models.RoleLawyer {
			if body.LawyerID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "lawyer_id is required for the lawyer role")
			}
			if err := checkLawyerLink(*body.LawyerID, 0); err != nil {
				return err
			}
		} else {
			body.LawyerID = nil
		}

		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		u := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			LawyerID:     body.LawyerID,
		}
		u.LastUpdatedBy = &p.UserID
		u.LastChangeDescription = "Created"

		if err := database.DB.Create(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&u))
	}
}

// GET /api/users  (admin only, guarded at the route)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Scopes(models.NotDeleted).Order("name ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list users")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/users/:id  (admin only, guarded at the route)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var u models.User
		if err := database.DB.Scopes(models.NotDeleted).First(&u, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var tracker revision.Tracker

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			tracker.Field("name", name != u.Name)
			u.Name = name
		}
		if body.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "email is required")
			}
			if email != u.Email {
				var exist models.User
				if err := database.DB.Where("email = ? AND id <> ?", email, u.ID).First(&exist).Error; err == nil {
					return fiber.NewError(fiber.StatusConflict, "email already registered")
				}
			}
			tracker.Field("email", email != u.Email)
			u.Email = email
		}
		if body.Role != nil {
			if !models.ValidRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "role is invalid")
			}
			tracker.Field("role", *body.Role != u.Role)
			u.Role = *body.Role
		}
		if u.Role == models.RoleLawyer {
			if body.LawyerID != nil {
				if err := checkLawyerLink(*body.LawyerID, u.ID); err != nil {
					return err
				}
				tracker.Field("lawyer profile", u.LawyerID == nil || *u.LawyerID != *body.LawyerID)
				u.LawyerID = body.LawyerID
			}
		} else if u.LawyerID != nil {
			tracker.Field("lawyer profile", true)
			u.LawyerID = nil
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
			}
			tracker.Field("password", true)
			u.PasswordHash = string(hash)
		}

		u.LastUpdatedBy = &p.UserID
		u.LastChangeDescription = tracker.Describe()

		if err := database.DB.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update user")
		}

		return c.JSON(toResponse(&u))
	}
}

// DELETE /api/users/:id  (admin only, guarded at the route; soft delete)
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var u models.User
		if err := database.DB.Scopes(models.NotDeleted).First(&u, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		if u.ID == p.UserID {
			return fiber.NewError(fiber.StatusBadRequest, "you cannot delete your own account")
		}

		u.MarkDeleted(p.UserID)
		u.LastUpdatedBy = &p.UserID
		if err := database.DB.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete user")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "user_delete",
			Description: fmt.Sprintf("Deleted user %s", u.Email),
			EntityType:  "user",
			EntityID:    &u.ID,
			IP:          c.IP(),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

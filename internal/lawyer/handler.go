package lawyer

import (
	"fmt"
	"strings"
	"time"

	"lexfirm-backend/internal/activity"
	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/revision"
	"lexfirm-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type LawyerResponse struct {
	ID                    uint                `json:"id"`
	Name                  string              `json:"name"`
	Initials              string              `json:"initials"`
	Email                 string              `json:"email"`
	Rank                  models.LawyerRank   `json:"rank"`
	Status                models.LawyerStatus `json:"status"`
	DateHired             *string             `json:"date_hired"`
	LastUpdatedBy         *uint               `json:"last_updated_by"`
	LastChangeDescription string              `json:"last_change_description"`
	CreatedAt             string              `json:"created_at"`
}

type CreateLawyerRequest struct {
	Name      string              `json:"name" validate:"required"`
	Initials  string              `json:"initials" validate:"required,max=5"`
	Email     string              `json:"email" validate:"required,email"`
	Rank      models.LawyerRank   `json:"rank" validate:"required"`
	Status    models.LawyerStatus `json:"status"`
	DateHired *string             `json:"date_hired"`
}

type UpdateLawyerRequest struct {
	Name      *string              `json:"name"`
	Initials  *string              `json:"initials"`
	Email     *string              `json:"email"`
	Rank      *models.LawyerRank   `json:"rank"`
	Status    *models.LawyerStatus `json:"status"`
	DateHired *string              `json:"date_hired"`
}

func toResponse(l *models.Lawyer) LawyerResponse {
	resp := LawyerResponse{
		ID:                    l.ID,
		Name:                  l.Name,
		Initials:              l.Initials,
		Email:                 l.Email,
		Rank:                  l.Rank,
		Status:                l.Status,
		LastUpdatedBy:         l.LastUpdatedBy,
		LastChangeDescription: l.LastChangeDescription,
		CreatedAt:             l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if l.DateHired != nil {
		hired := l.DateHired.Format("2006-01-02")
		resp.DateHired = &hired
	}
	return resp
}

// emailTaken checks lawyer-email uniqueness, excluding self on update.
func emailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	q := database.DB.Model(&models.Lawyer{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func parseDate(s string) (*time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date_hired must be formatted YYYY-MM-DD")
	}
	return &d, nil
}

// POST /api/lawyers
func CreateLawyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}
		if !authz.CanManageLawyers(p) {
			return fiber.NewError(fiber.StatusForbidden, "only admins and senior lawyers may manage lawyer profiles")
		}

		var body CreateLawyerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Initials = strings.ToUpper(strings.TrimSpace(body.Initials))
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if err := validation.Struct(body); err != nil {
			return err
		}
		if !models.ValidRank(body.Rank) {
			return fiber.NewError(fiber.StatusBadRequest, "rank is invalid")
		}
		if body.Status == "" {
			body.Status = models.LawyerActive
		}

		taken, err := emailTaken(body.Email, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not check email")
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, "a lawyer with this email already exists")
		}

		l := models.Lawyer{
			Name:     body.Name,
			Initials: body.Initials,
			Email:    body.Email,
			Rank:     body.Rank,
			Status:   body.Status,
		}
		if body.DateHired != nil && *body.DateHired != "" {
			hired, err := parseDate(*body.DateHired)
			if err != nil {
				return err
			}
			l.DateHired = hired
		}
		l.LastUpdatedBy = &p.UserID
		l.LastChangeDescription = "Created"

		if err := database.DB.Create(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "a lawyer with this email already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&l))
	}
}

// GET /api/lawyers
func ListLawyersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authz.PrincipalFrom(c); err != nil {
			return err
		}

		var lawyers []models.Lawyer
		if err := database.DB.Scopes(models.NotDeleted).Order("name ASC").Find(&lawyers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list lawyers")
		}

		resp := make([]LawyerResponse, 0, len(lawyers))
		for i := range lawyers {
			resp = append(resp, toResponse(&lawyers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/lawyers/:id
func GetLawyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authz.PrincipalFrom(c); err != nil {
			return err
		}

		var l models.Lawyer
		if err := database.DB.Scopes(models.NotDeleted).First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lawyer not found")
		}
		return c.JSON(toResponse(&l))
	}
}

// PUT /api/lawyers/:id
func UpdateLawyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var l models.Lawyer
		if err := database.DB.Scopes(models.NotDeleted).First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lawyer not found")
		}

		if !authz.CanManageLawyers(p) {
			return fiber.NewError(fiber.StatusForbidden, "only admins and senior lawyers may manage lawyer profiles")
		}

		var body UpdateLawyerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var tracker revision.Tracker

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			tracker.Field("name", name != l.Name)
			l.Name = name
		}
		if body.Initials != nil {
			initials := strings.ToUpper(strings.TrimSpace(*body.Initials))
			if initials == "" || len(initials) > 5 {
				return fiber.NewError(fiber.StatusBadRequest, "initials must be 1-5 characters")
			}
			tracker.Field("initials", initials != l.Initials)
			l.Initials = initials
		}
		if body.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "email is required")
			}
			if email != l.Email {
				taken, err := emailTaken(email, l.ID)
				if err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "could not check email")
				}
				if taken {
					return fiber.NewError(fiber.StatusConflict, "a lawyer with this email already exists")
				}
			}
			tracker.Field("email", email != l.Email)
			l.Email = email
		}
		if body.Rank != nil {
			if !models.ValidRank(*body.Rank) {
				return fiber.NewError(fiber.StatusBadRequest, "rank is invalid")
			}
			tracker.Field("rank", *body.Rank != l.Rank)
			l.Rank = *body.Rank
		}
		if body.Status != nil {
			if *body.Status != models.LawyerActive && *body.Status != models.LawyerInactive {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			tracker.Field("status", *body.Status != l.Status)
			l.Status = *body.Status
		}
		if body.DateHired != nil {
			if *body.DateHired == "" {
				tracker.Field("date hired", l.DateHired != nil)
				l.DateHired = nil
			} else {
				hired, err := parseDate(*body.DateHired)
				if err != nil {
					return err
				}
				tracker.Field("date hired", l.DateHired == nil || !l.DateHired.Equal(*hired))
				l.DateHired = hired
			}
		}

		l.LastUpdatedBy = &p.UserID
		l.LastChangeDescription = tracker.Describe()

		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update lawyer")
		}

		return c.JSON(toResponse(&l))
	}
}

// DELETE /api/lawyers/:id  (admin only, guarded at the route; soft delete)
func DeleteLawyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var l models.Lawyer
		if err := database.DB.Scopes(models.NotDeleted).First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lawyer not found")
		}

		l.MarkDeleted(p.UserID)
		l.LastUpdatedBy = &p.UserID
		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete lawyer")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "lawyer_delete",
			Description: fmt.Sprintf("Deleted lawyer %s (%s)", l.Name, l.Initials),
			EntityType:  "lawyer",
			EntityID:    &l.ID,
			IP:          c.IP(),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

package timeentry

import (
	"fmt"
	"strconv"
	"time"

	"lexfirm-backend/internal/activity"
	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/revision"

	"github.com/gofiber/fiber/v2"
)

type TimeEntryResponse struct {
	ID          uint    `json:"id"`
	LawyerID    uint    `json:"lawyer_id"`
	MatterID    uint    `json:"matter_id"`
	MatterTitle string  `json:"matter_title,omitempty"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	Billable    bool    `json:"billable"`
}

type CreateTimeEntryRequest struct {
	MatterID    uint    `json:"matter_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	Billable    *bool   `json:"billable"`
}

type UpdateTimeEntryRequest struct {
	Date        *string  `json:"date"`
	Hours       *float64 `json:"hours"`
	Description *string  `json:"description"`
	Billable    *bool    `json:"billable"`
}

func toResponse(e *models.TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:          e.ID,
		LawyerID:    e.LawyerID,
		MatterID:    e.MatterID,
		Date:        e.Date.Format("2006-01-02"),
		Hours:       e.Hours,
		Description: e.Description,
		Billable:    e.Billable,
	}
	if e.Matter != nil {
		resp.MatterTitle = e.Matter.Title
	}
	return resp
}

func validHours(h float64) bool {
	return h >= models.MinHours && h <= models.MaxHours
}

// requireOwnLawyer: time entries belong to the lawyer who logged them, so
// the caller must be a lawyer with a linked profile.
func requireOwnLawyer(p authz.Principal) (uint, error) {
	if p.Role != models.RoleLawyer || p.LawyerID == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "only lawyers may log time")
	}
	return *p.LawyerID, nil
}

// POST /api/time-entries
func CreateTimeEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}
		lawyerID, err := requireOwnLawyer(p)
		if err != nil {
			return err
		}

		var body CreateTimeEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.MatterID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "matter_id is required")
		}
		if !validHours(body.Hours) {
			return fiber.NewError(fiber.StatusBadRequest, "hours must be between 0.01 and 24")
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		}

		var m models.Matter
		if err := database.DB.Scopes(models.NotDeleted).First(&m, "id = ?", body.MatterID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "matter not found")
		}

		e := models.TimeEntry{
			LawyerID:    lawyerID,
			MatterID:    m.ID,
			Date:        date,
			Hours:       body.Hours,
			Description: body.Description,
			Billable:    true,
		}
		if body.Billable != nil {
			e.Billable = *body.Billable
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create time entry")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "time_entry_create",
			Description: fmt.Sprintf("Logged %.2f hours on %s", e.Hours, m.Title),
			EntityType:  "matter",
			EntityID:    &m.ID,
			IP:          c.IP(),
		})

		e.Matter = &m
		return c.Status(fiber.StatusCreated).JSON(toResponse(&e))
	}
}

// GET /api/time-entries?matter_id=&year=&month=
//
// Lawyers see their own entries; admins and accountants see everyone's.
func ListTimeEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("Matter")

		switch {
		case authz.IsAdmin(p) || authz.IsAccountant(p):
			// unrestricted
		case p.Role == models.RoleLawyer && p.LawyerID != nil:
			q = q.Where("lawyer_id = ?", *p.LawyerID)
		default:
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view time entries")
		}

		if mid := c.Query("matter_id"); mid != "" {
			q = q.Where("matter_id = ?", mid)
		}
		if y := c.Query("year"); y != "" {
			year, _ := strconv.Atoi(y)
			month, _ := strconv.Atoi(c.Query("month"))
			if month < 1 || month > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
			}
			from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
			q = q.Where("date >= ? AND date < ?", from, from.AddDate(0, 1, 0))
		}

		var entries []models.TimeEntry
		if err := q.Order("date DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list time entries")
		}

		resp := make([]TimeEntryResponse, 0, len(entries))
		for i := range entries {
			resp = append(resp, toResponse(&entries[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/time-entries/:id
func UpdateTimeEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}
		lawyerID, err := requireOwnLawyer(p)
		if err != nil {
			return err
		}

		var e models.TimeEntry
		if err := database.DB.Preload("Matter").First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "time entry not found")
		}
		if e.LawyerID != lawyerID {
			return fiber.NewError(fiber.StatusForbidden, "you may only edit your own time entries")
		}

		var body UpdateTimeEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var tracker revision.Tracker

		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			}
			tracker.Field("date", !date.Equal(e.Date))
			e.Date = date
		}
		if body.Hours != nil {
			if !validHours(*body.Hours) {
				return fiber.NewError(fiber.StatusBadRequest, "hours must be between 0.01 and 24")
			}
			tracker.Field("hours", *body.Hours != e.Hours)
			e.Hours = *body.Hours
		}
		if body.Description != nil {
			tracker.Field("description", *body.Description != e.Description)
			e.Description = *body.Description
		}
		if body.Billable != nil {
			tracker.Field("billable", *body.Billable != e.Billable)
			e.Billable = *body.Billable
		}

		if err := database.DB.Save(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update time entry")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "time_entry_update",
			Description: tracker.Describe(),
			EntityType:  "matter",
			EntityID:    &e.MatterID,
			IP:          c.IP(),
		})

		return c.JSON(toResponse(&e))
	}
}

// DELETE /api/time-entries/:id
func DeleteTimeEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}
		lawyerID, err := requireOwnLawyer(p)
		if err != nil {
			return err
		}

		var e models.TimeEntry
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "time entry not found")
		}
		if e.LawyerID != lawyerID {
			return fiber.NewError(fiber.StatusForbidden, "you may only delete your own time entries")
		}

		if err := database.DB.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete time entry")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "time_entry_delete",
			Description: fmt.Sprintf("Deleted a %.2f hour entry", e.Hours),
			EntityType:  "matter",
			EntityID:    &e.MatterID,
			IP:          c.IP(),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

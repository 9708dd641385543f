package matter

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
	"gorm.io/gorm"
)

type MatterResponse struct {
	ID                    uint                `json:"id"`
	Title                 string              `json:"title"`
	DocketNumber          string              `json:"docket_number"`
	Category              string              `json:"category"`
	Status                models.MatterStatus `json:"status"`
	Notes                 string              `json:"notes"`
	ClientID              uint                `json:"client_id"`
	ClientName            string              `json:"client_name,omitempty"`
	TeamAssigned          []uint              `json:"team_assigned"`
	LastUpdatedBy         *uint               `json:"last_updated_by"`
	LastChangeDescription string              `json:"last_change_description"`
	CreatedAt             string              `json:"created_at"`
	UpdatedAt             string              `json:"updated_at"`
}

type DeletedMatterResponse struct {
	MatterResponse
	DeletedAt string `json:"deleted_at"`
	DeletedBy *uint  `json:"deleted_by"`
}

type CreateMatterRequest struct {
	Title        string              `json:"title" validate:"required"`
	DocketNumber string              `json:"docket_number" validate:"required"`
	Category     string              `json:"category" validate:"required"`
	ClientID     uint                `json:"client_id" validate:"required"`
	TeamAssigned []uint              `json:"team_assigned"`
	Status       models.MatterStatus `json:"status"`
	Notes        string              `json:"notes"`
}

type UpdateMatterRequest struct {
	Title        *string              `json:"title"`
	DocketNumber *string              `json:"docket_number"`
	Category     *string              `json:"category"`
	ClientID     *uint                `json:"client_id"`
	TeamAssigned *[]uint              `json:"team_assigned"`
	Status       *models.MatterStatus `json:"status"`
	Notes        *string              `json:"notes"`
}

func toResponse(m *models.Matter) MatterResponse {
	resp := MatterResponse{
		ID:                    m.ID,
		Title:                 m.Title,
		DocketNumber:          m.DocketNumber,
		Category:              m.Category,
		Status:                m.Status,
		Notes:                 m.Notes,
		ClientID:              m.ClientID,
		TeamAssigned:          m.TeamIDs(),
		LastUpdatedBy:         m.LastUpdatedBy,
		LastChangeDescription: m.LastChangeDescription,
		CreatedAt:             m.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:             m.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.Client != nil {
		resp.ClientName = m.Client.Name
	}
	return resp
}

// validateDocket enforces the docket format and the category/prefix
// invariant shared by create and update.
func validateDocket(docket, category string) error {
	if !models.ValidDocketNumber(docket) {
		return fiber.NewError(fiber.StatusBadRequest, "docket_number must match CATEGORY.SIXCHARS, e.g. 5.AB12CD")
	}
	if len(category) != 1 || category[0] < '0' || category[0] > '9' {
		return fiber.NewError(fiber.StatusBadRequest, "category must be a single digit")
	}
	if models.DocketCategory(docket) != category {
		return fiber.NewError(fiber.StatusBadRequest, "category must match the docket_number prefix")
	}
	return nil
}

// docketTaken checks global docket uniqueness, excluding the matter's own
// prior value on update (pass excludeID = 0 on create).
func docketTaken(docket string, excludeID uint) (bool, error) {
	var count int64
	q := database.DB.Model(&models.Matter{}).Where("docket_number = ?", docket)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// loadMatter fetches a live matter with the associations the authorization
// predicates need. Missing or soft-deleted matters surface as 404 before
// any permission decision.
func loadMatter(id string) (*models.Matter, error) {
	var m models.Matter
	err := database.DB.Scopes(models.NotDeleted).
		Preload("Client.LawyerOwners").
		Preload("TeamAssigned").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "matter not found")
	}
	return &m, nil
}

// POST /api/matters
func CreateMatterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var body CreateMatterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Title = strings.TrimSpace(body.Title)
		body.DocketNumber = strings.TrimSpace(body.DocketNumber)
		if err := validation.Struct(body); err != nil {
			return err
		}
		if err := validateDocket(body.DocketNumber, body.Category); err != nil {
			return err
		}
		if body.Status == "" {
			body.Status = models.MatterActive
		}
		if !models.ValidMatterStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
		}

		// The target client is loaded before authorization: a nonexistent
		// client is 404 regardless of who asks.
		var client models.Client
		if err := database.DB.Preload("LawyerOwners").First(&client, "id = ?", body.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}

		if !authz.CanCreateMatter(p, &client) {
			return fiber.NewError(fiber.StatusForbidden, "you may only open matters for clients you own")
		}

		taken, err := docketTaken(body.DocketNumber, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not check docket number")
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, "docket_number is already in use")
		}

		team, err := LoadLawyers(body.TeamAssigned)
		if err != nil {
			return err
		}
		team = ReconcileTeam(team, client.LawyerOwners)

		m := models.Matter{
			Title:        body.Title,
			DocketNumber: body.DocketNumber,
			Category:     body.Category,
			Status:       body.Status,
			Notes:        body.Notes,
			ClientID:     client.ID,
			TeamAssigned: team,
		}
		m.LastUpdatedBy = &p.UserID
		m.LastChangeDescription = "Created"

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "docket_number is already in use")
		}
		m.Client = &client

		return c.Status(fiber.StatusCreated).JSON(toResponse(&m))
	}
}

// GET /api/matters
//
// Admins see everything; lawyers see only matters they own (via the
// client) or are assigned to. Other roles are refused, matching the view
// policy on single matters.
func ListMattersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		q := database.DB.Scopes(models.NotDeleted).Preload("Client").Preload("TeamAssigned")

		switch {
		case authz.IsAdmin(p):
			// unrestricted
		case p.Role == models.RoleLawyer && p.LawyerID != nil:
			q = q.Where(
				"id IN (?) OR client_id IN (?)",
				database.DB.Table("matter_team").Select("matter_id").Where("lawyer_id = ?", *p.LawyerID),
				database.DB.Table("client_owners").Select("client_id").Where("lawyer_id = ?", *p.LawyerID),
			)
		default:
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view matters")
		}

		var matters []models.Matter
		if err := q.Order("created_at DESC").Find(&matters).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list matters")
		}

		resp := make([]MatterResponse, 0, len(matters))
		for i := range matters {
			resp = append(resp, toResponse(&matters[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/matters/:id
func GetMatterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		m, err := loadMatter(c.Params("id"))
		if err != nil {
			return err
		}

		if !authz.CanViewMatter(p, m) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view this matter")
		}

		return c.JSON(toResponse(m))
	}
}

// PUT /api/matters/:id
func UpdateMatterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		m, err := loadMatter(c.Params("id"))
		if err != nil {
			return err
		}

		// Authorization is judged against the matter's existing client and
		// team, before any requested re-assignment takes effect.
		if !authz.CanUpdateMatter(p, m) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to edit this matter")
		}

		var body UpdateMatterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		docket := m.DocketNumber
		if body.DocketNumber != nil {
			docket = strings.TrimSpace(*body.DocketNumber)
		}
		category := m.Category
		if body.Category != nil {
			category = *body.Category
		}
		if err := validateDocket(docket, category); err != nil {
			return err
		}
		if docket != m.DocketNumber {
			taken, err := docketTaken(docket, m.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not check docket number")
			}
			if taken {
				return fiber.NewError(fiber.StatusConflict, "docket_number is already in use")
			}
		}

		client := m.Client
		if body.ClientID != nil && *body.ClientID != m.ClientID {
			var next models.Client
			if err := database.DB.Preload("LawyerOwners").First(&next, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "client does not exist")
			}
			client = &next
		}

		// Only ids the request actually supplies are validated. The existing
		// team is kept as-is, so a lawyer soft-deleted since the assignment
		// does not block unrelated edits to the matter.
		team := m.TeamAssigned
		if body.TeamAssigned != nil {
			team, err = LoadLawyers(*body.TeamAssigned)
			if err != nil {
				return err
			}
		}
		team = ReconcileTeam(team, client.LawyerOwners)
		teamIDs := make([]uint, 0, len(team))
		for _, l := range team {
			teamIDs = append(teamIDs, l.ID)
		}

		var tracker revision.Tracker
		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "title cannot be empty")
			}
			tracker.Field("title", title != m.Title)
			m.Title = title
		}
		tracker.Field("docket number", docket != m.DocketNumber)
		m.DocketNumber = docket
		tracker.Field("category", category != m.Category)
		m.Category = category
		if body.Status != nil {
			if !models.ValidMatterStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			tracker.Field("status", *body.Status != m.Status)
			m.Status = *body.Status
		}
		if body.Notes != nil {
			tracker.Field("notes", *body.Notes != m.Notes)
			m.Notes = *body.Notes
		}
		tracker.Field("client", client.ID != m.ClientID)
		m.ClientID = client.ID
		teamChanged := !EqualIDSet(teamIDs, m.TeamIDs())
		tracker.Field("team", teamChanged)

		m.LastUpdatedBy = &p.UserID
		m.LastChangeDescription = tracker.Describe()

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("TeamAssigned").Save(m).Error; err != nil {
				return err
			}
			if teamChanged {
				return tx.Model(m).Association("TeamAssigned").Replace(team)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update matter")
		}
		m.TeamAssigned = team
		m.Client = client

		return c.JSON(toResponse(m))
	}
}

// DELETE /api/matters/:id  (admin only, guarded at the route)
//
// Matters are never physically removed; the record is flagged and stays in
// the recently-deleted view for the recovery window.
func DeleteMatterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		m, err := loadMatter(c.Params("id"))
		if err != nil {
			return err
		}

		m.MarkDeleted(p.UserID)
		m.LastUpdatedBy = &p.UserID
		if err := database.DB.Omit("TeamAssigned").Save(m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete matter")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "matter_delete",
			Description: fmt.Sprintf("Deleted matter %s (%s)", m.Title, m.DocketNumber),
			EntityType:  "matter",
			EntityID:    &m.ID,
			IP:          c.IP(),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/matters/deleted
func ListDeletedMattersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authz.PrincipalFrom(c); err != nil {
			return err
		}

		var matters []models.Matter
		err := database.DB.Scopes(models.RecentlyDeleted).
			Preload("Client").Preload("TeamAssigned").
			Order("deleted_at DESC").
			Find(&matters).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list deleted matters")
		}

		resp := make([]DeletedMatterResponse, 0, len(matters))
		for i := range matters {
			m := &matters[i]
			item := DeletedMatterResponse{
				MatterResponse: toResponse(m),
				DeletedBy:      m.DeletedBy,
			}
			if m.DeletedAt != nil {
				item.DeletedAt = m.DeletedAt.Format("2006-01-02 15:04:05")
			}
			resp = append(resp, item)
		}
		return c.JSON(resp)
	}
}

// POST /api/matters/:id/restore  (admin only, guarded at the route)
func RestoreMatterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		var m models.Matter
		err = database.DB.Where("is_deleted = TRUE").
			Preload("Client").
			Preload("TeamAssigned").
			First(&m, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "deleted matter not found")
		}

		m.ClearDeleted()
		m.LastUpdatedBy = &p.UserID
		m.LastChangeDescription = "Restored"
		if err := database.DB.Omit("TeamAssigned").Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not restore matter")
		}

		return c.JSON(toResponse(&m))
	}
}

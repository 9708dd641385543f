package client

import (
	"fmt"
	"strings"

	"lexfirm-backend/internal/activity"
	"lexfirm-backend/internal/authz"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/matter"
	"lexfirm-backend/internal/models"
	"lexfirm-backend/internal/revision"
	"lexfirm-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClientResponse struct {
	ID                    uint             `json:"id"`
	Name                  string           `json:"name"`
	IsBusinessEntity      bool             `json:"is_business_entity"`
	PresidentName         string           `json:"president_name"`
	AuthorizedRep         string           `json:"authorized_representative"`
	ContactEmail          string           `json:"contact_email"`
	ContactPhone          string           `json:"contact_phone"`
	Address               string           `json:"address"`
	VATStatus             models.VATStatus `json:"vat_status"`
	LawyerOwners          []uint           `json:"lawyer_owners"`
	LastUpdatedBy         *uint            `json:"last_updated_by"`
	LastChangeDescription string           `json:"last_change_description"`
	CreatedAt             string           `json:"created_at"`
	UpdatedAt             string           `json:"updated_at"`
}

type CreateClientRequest struct {
	Name             string           `json:"name" validate:"required"`
	IsBusinessEntity bool             `json:"is_business_entity"`
	PresidentName    string           `json:"president_name"`
	AuthorizedRep    string           `json:"authorized_representative"`
	ContactEmail     string           `json:"contact_email"`
	ContactPhone     string           `json:"contact_phone"`
	Address          string           `json:"address"`
	VATStatus        models.VATStatus `json:"vat_status" validate:"required"`
	LawyerOwners     []uint           `json:"lawyer_owners"`
}

type UpdateClientRequest struct {
	Name             *string           `json:"name"`
	IsBusinessEntity *bool             `json:"is_business_entity"`
	PresidentName    *string           `json:"president_name"`
	AuthorizedRep    *string           `json:"authorized_representative"`
	ContactEmail     *string           `json:"contact_email"`
	ContactPhone     *string           `json:"contact_phone"`
	Address          *string           `json:"address"`
	VATStatus        *models.VATStatus `json:"vat_status"`
	LawyerOwners     *[]uint           `json:"lawyer_owners"`
}

func toResponse(cl *models.Client) ClientResponse {
	return ClientResponse{
		ID:                    cl.ID,
		Name:                  cl.Name,
		IsBusinessEntity:      cl.IsBusinessEntity,
		PresidentName:         cl.PresidentName,
		AuthorizedRep:         cl.AuthorizedRep,
		ContactEmail:          cl.ContactEmail,
		ContactPhone:          cl.ContactPhone,
		Address:               cl.Address,
		VATStatus:             cl.VATStatus,
		LawyerOwners:          cl.OwnerIDs(),
		LastUpdatedBy:         cl.LastUpdatedBy,
		LastChangeDescription: cl.LastChangeDescription,
		CreatedAt:             cl.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:             cl.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func loadClient(id string) (*models.Client, error) {
	var cl models.Client
	if err := database.DB.Preload("LawyerOwners").First(&cl, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	return &cl, nil
}

// assignedToAnyMatter reports whether the lawyer sits on the team of any
// live matter belonging to the client.
func assignedToAnyMatter(lawyerID, clientID uint) bool {
	var count int64
	err := database.DB.Table("matter_team").
		Joins("JOIN matters ON matters.id = matter_team.matter_id").
		Where("matter_team.lawyer_id = ? AND matters.client_id = ? AND matters.is_deleted <> TRUE", lawyerID, clientID).
		Count(&count).Error
	return err == nil && count > 0
}

func validateBusinessFields(isBusiness bool, president, rep string) error {
	if !isBusiness {
		return nil
	}
	if strings.TrimSpace(president) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "president_name is required for a business entity")
	}
	if strings.TrimSpace(rep) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "authorized_representative is required for a business entity")
	}
	return nil
}

// POST /api/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}
		if !authz.IsAdmin(p) && !authz.IsSeniorLawyer(p) {
			return fiber.NewError(fiber.StatusForbidden, "only admins and senior lawyers may create clients")
		}

		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}
		if !models.ValidVATStatus(body.VATStatus) {
			return fiber.NewError(fiber.StatusBadRequest, "vat_status is invalid")
		}
		if err := validateBusinessFields(body.IsBusinessEntity, body.PresidentName, body.AuthorizedRep); err != nil {
			return err
		}

		owners, err := matter.LoadLawyers(body.LawyerOwners)
		if err != nil {
			return err
		}

		cl := models.Client{
			Name:             body.Name,
			IsBusinessEntity: body.IsBusinessEntity,
			PresidentName:    body.PresidentName,
			AuthorizedRep:    body.AuthorizedRep,
			ContactEmail:     body.ContactEmail,
			ContactPhone:     body.ContactPhone,
			Address:          body.Address,
			VATStatus:        body.VATStatus,
			LawyerOwners:     owners,
		}
		cl.LastUpdatedBy = &p.UserID
		cl.LastChangeDescription = "Created"

		if err := database.DB.Create(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create client")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&cl))
	}
}

// GET /api/clients
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("LawyerOwners")

		switch {
		case authz.IsAdmin(p):
			// unrestricted
		case p.Role == models.RoleLawyer && p.LawyerID != nil:
			q = q.Where(
				"id IN (?) OR id IN (?)",
				database.DB.Table("client_owners").Select("client_id").Where("lawyer_id = ?", *p.LawyerID),
				database.DB.Table("matters").Select("client_id").Where(
					"is_deleted <> TRUE AND id IN (?)",
					database.DB.Table("matter_team").Select("matter_id").Where("lawyer_id = ?", *p.LawyerID),
				),
			)
		default:
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view clients")
		}

		var clients []models.Client
		if err := q.Order("name ASC").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list clients")
		}

		resp := make([]ClientResponse, 0, len(clients))
		for i := range clients {
			resp = append(resp, toResponse(&clients[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/clients/:id
func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		cl, err := loadClient(c.Params("id"))
		if err != nil {
			return err
		}

		assigned := false
		if p.LawyerID != nil {
			assigned = assignedToAnyMatter(*p.LawyerID, cl.ID)
		}
		if !authz.CanViewClient(p, cl, assigned) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view this client")
		}

		return c.JSON(toResponse(cl))
	}
}

type matterSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	DocketNumber string `json:"docket_number"`
}

// GET /api/clients/:id/details
//
// Client plus its live matters grouped by status.
func GetClientDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		cl, err := loadClient(c.Params("id"))
		if err != nil {
			return err
		}

		assigned := false
		if p.LawyerID != nil {
			assigned = assignedToAnyMatter(*p.LawyerID, cl.ID)
		}
		if !authz.CanViewClient(p, cl, assigned) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to view this client")
		}

		var matters []models.Matter
		if err := database.DB.Scopes(models.NotDeleted).Where("client_id = ?", cl.ID).Order("created_at DESC").Find(&matters).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load matters")
		}

		grouped := make(map[models.MatterStatus][]matterSummary)
		for _, m := range matters {
			grouped[m.Status] = append(grouped[m.Status], matterSummary{
				ID:           m.ID,
				Title:        m.Title,
				DocketNumber: m.DocketNumber,
			})
		}

		return c.JSON(fiber.Map{
			"client":            toResponse(cl),
			"matters_by_status": grouped,
		})
	}
}

// PUT /api/clients/:id
//
// Open to any authenticated role; owner and rank gating for client edits
// is enforced in the frontend only.
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		cl, err := loadClient(c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var tracker revision.Tracker

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			tracker.Field("name", name != cl.Name)
			cl.Name = name
		}
		if body.VATStatus != nil {
			if !models.ValidVATStatus(*body.VATStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "vat_status is invalid")
			}
			tracker.Field("VAT status", *body.VATStatus != cl.VATStatus)
			cl.VATStatus = *body.VATStatus
		}

		isBusiness := cl.IsBusinessEntity
		if body.IsBusinessEntity != nil {
			isBusiness = *body.IsBusinessEntity
		}
		president := cl.PresidentName
		if body.PresidentName != nil {
			president = *body.PresidentName
		}
		rep := cl.AuthorizedRep
		if body.AuthorizedRep != nil {
			rep = *body.AuthorizedRep
		}
		if err := validateBusinessFields(isBusiness, president, rep); err != nil {
			return err
		}
		tracker.Field("entity type", isBusiness != cl.IsBusinessEntity)
		cl.IsBusinessEntity = isBusiness
		tracker.Field("president", president != cl.PresidentName)
		cl.PresidentName = president
		tracker.Field("representative", rep != cl.AuthorizedRep)
		cl.AuthorizedRep = rep

		if body.ContactEmail != nil {
			tracker.Field("contact email", *body.ContactEmail != cl.ContactEmail)
			cl.ContactEmail = *body.ContactEmail
		}
		if body.ContactPhone != nil {
			tracker.Field("contact phone", *body.ContactPhone != cl.ContactPhone)
			cl.ContactPhone = *body.ContactPhone
		}
		if body.Address != nil {
			tracker.Field("address", *body.Address != cl.Address)
			cl.Address = *body.Address
		}

		ownersChanged := false
		owners := cl.LawyerOwners
		if body.LawyerOwners != nil {
			owners, err = matter.LoadLawyers(*body.LawyerOwners)
			if err != nil {
				return err
			}
			// Compare the resolved rows, not the raw payload: duplicate ids
			// in the request are not a change.
			ownerIDs := make([]uint, 0, len(owners))
			for _, l := range owners {
				ownerIDs = append(ownerIDs, l.ID)
			}
			ownersChanged = !matter.EqualIDSet(ownerIDs, cl.OwnerIDs())
		}
		tracker.Field("owners", ownersChanged)

		cl.LastUpdatedBy = &p.UserID
		cl.LastChangeDescription = tracker.Describe()

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("LawyerOwners").Save(cl).Error; err != nil {
				return err
			}
			if ownersChanged {
				return tx.Model(cl).Association("LawyerOwners").Replace(owners)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update client")
		}
		cl.LawyerOwners = owners

		// New owners join the team of every matter of this client.
		if ownersChanged {
			if err := matter.SyncOwnersIntoTeams(cl.ID, owners); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not sync owners into matter teams")
			}
		}

		return c.JSON(toResponse(cl))
	}
}

// DELETE /api/clients/:id  (admin only, guarded at the route)
//
// Clients are hard-deleted; there is no recovery view for them.
func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authz.PrincipalFrom(c)
		if err != nil {
			return err
		}

		cl, err := loadClient(c.Params("id"))
		if err != nil {
			return err
		}

		var matterCount int64
		if err := database.DB.Model(&models.Matter{}).Where("client_id = ?", cl.ID).Count(&matterCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not check client matters")
		}
		if matterCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "client still has matters; delete or reassign them first")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(cl).Association("LawyerOwners").Clear(); err != nil {
				return err
			}
			return tx.Delete(cl).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete client")
		}

		activity.Record(activity.Entry{
			UserID:      p.UserID,
			Action:      "client_delete",
			Description: fmt.Sprintf("Deleted client %s", cl.Name),
			EntityType:  "client",
			EntityID:    &cl.ID,
			IP:          c.IP(),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

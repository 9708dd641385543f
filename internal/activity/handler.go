package activity

import (
	"context"
	"errors"
	"strconv"
	"time"

	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivityResponse struct {
	ID              uint   `json:"id"`
	CreatedAt       string `json:"created_at"`
	UserID          uint   `json:"user_id"`
	UserName        string `json:"user_name"`
	LawyerInitials  string `json:"lawyer_initials,omitempty"`
	Action          string `json:"action"`
	Description     string `json:"description"`
	EntityType      string `json:"entity_type,omitempty"`
	EntityID        *uint  `json:"entity_id,omitempty"`
	EntityTitle     string `json:"entity_title,omitempty"`
	IPAddress       string `json:"ip_address"`
}

// GET /api/activity?year=2026&month=9
//
// Lists one calendar month of entries, newest first, enriched with the
// acting lawyer's initials and the target matter/client title. The query
// runs under a configurable ceiling and returns 504 when it is exceeded.
func ListActivityHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		year := queryInt(c, "year", now.Year())
		month := queryInt(c, "month", int(now.Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0)

		ctx, cancel := context.WithTimeout(c.Context(), cfg.ActivityQueryTimeout)
		defer cancel()

		var logs []models.ActivityLog
		err := database.DB.WithContext(ctx).
			Where("created_at >= ? AND created_at < ?", from, to).
			Order("created_at DESC").
			Find(&logs).Error
		if err != nil {
			return queryError(err)
		}

		names, initials := actorDetails(ctx, logs)
		titles := entityTitles(ctx, logs)

		resp := make([]ActivityResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ActivityResponse{
				ID:             l.ID,
				CreatedAt:      l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:         l.UserID,
				UserName:       names[l.UserID],
				LawyerInitials: initials[l.UserID],
				Action:         l.Action,
				Description:    l.Description,
				EntityType:     l.EntityType,
				EntityID:       l.EntityID,
				EntityTitle:    entityTitle(titles, l),
				IPAddress:      l.IPAddress,
			})
		}

		return c.JSON(resp)
	}
}

// queryError maps a failed listing query to its response status; hitting
// the deadline surfaces as 504 rather than a generic 500.
func queryError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.NewError(fiber.StatusGatewayTimeout, "activity query exceeded the time limit")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "could not list activity")
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// actorDetails maps acting user ids to display names and, when the user is
// linked to a lawyer profile, that lawyer's initials.
func actorDetails(ctx context.Context, logs []models.ActivityLog) (map[uint]string, map[uint]string) {
	ids := make([]uint, 0, len(logs))
	seen := make(map[uint]bool)
	for _, l := range logs {
		if !seen[l.UserID] {
			seen[l.UserID] = true
			ids = append(ids, l.UserID)
		}
	}

	names := make(map[uint]string, len(ids))
	initials := make(map[uint]string)
	if len(ids) == 0 {
		return names, initials
	}

	var users []models.User
	if err := database.DB.WithContext(ctx).Preload("Lawyer").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return names, initials
	}
	for _, u := range users {
		names[u.ID] = u.Name
		if u.Lawyer != nil {
			initials[u.ID] = u.Lawyer.Initials
		}
	}
	return names, initials
}

type titleKey struct {
	entityType string
	entityID   uint
}

func entityTitles(ctx context.Context, logs []models.ActivityLog) map[titleKey]string {
	matterIDs := make([]uint, 0)
	clientIDs := make([]uint, 0)
	for _, l := range logs {
		if l.EntityID == nil {
			continue
		}
		switch l.EntityType {
		case "matter":
			matterIDs = append(matterIDs, *l.EntityID)
		case "client":
			clientIDs = append(clientIDs, *l.EntityID)
		}
	}

	titles := make(map[titleKey]string)
	if len(matterIDs) > 0 {
		var matters []models.Matter
		if err := database.DB.WithContext(ctx).Where("id IN ?", matterIDs).Find(&matters).Error; err == nil {
			for _, m := range matters {
				titles[titleKey{"matter", m.ID}] = m.Title
			}
		}
	}
	if len(clientIDs) > 0 {
		var clients []models.Client
		if err := database.DB.WithContext(ctx).Where("id IN ?", clientIDs).Find(&clients).Error; err == nil {
			for _, cl := range clients {
				titles[titleKey{"client", cl.ID}] = cl.Name
			}
		}
	}
	return titles
}

func entityTitle(titles map[titleKey]string, l models.ActivityLog) string {
	if l.EntityID == nil {
		return ""
	}
	return titles[titleKey{l.EntityType, *l.EntityID}]
}

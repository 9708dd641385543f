package activity

import (
	"log"

	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"
)

type Entry struct {
	UserID      uint
	Action      string
	Description string
	EntityType  string
	EntityID    *uint
	IP          string
}

// Record appends one activity row. Best-effort: the write happens in the
// request goroutine so entries keep the actor's mutation order, but a
// failure is only logged, never surfaced, and never rolls back the
// mutation it describes.
func Record(e Entry) {
	row := models.ActivityLog{
		UserID:      e.UserID,
		Action:      e.Action,
		Description: e.Description,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		IPAddress:   e.IP,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		log.Printf("[WARN] activity log write failed (action=%s): %v", e.Action, err)
	}
}

package models

import "time"

// ActivityLog is append-only: rows are never updated or deleted, and a
// failed write must never fail the mutation it describes.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID uint `gorm:"not null;index" json:"user_id"`

	// Free-form tag, e.g. "time_entry_create", "matter_delete".
	Action      string `gorm:"size:50;index" json:"action"`
	Description string `gorm:"size:255" json:"description"`

	// Optional target of the action.
	EntityType string `gorm:"size:30;index" json:"entity_type"`
	EntityID   *uint  `gorm:"index" json:"entity_id"`

	IPAddress string `gorm:"size:45" json:"ip_address"`
}

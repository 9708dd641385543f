package models

import (
	"time"

	"gorm.io/gorm"
)

// DeletionPolicy tells how an entity type leaves the system: soft-deleted
// records are flagged and kept recoverable, hard-deleted records are removed.
type DeletionPolicy string

const (
	DeletionSoft DeletionPolicy = "soft"
	DeletionHard DeletionPolicy = "hard"
)

// RecoveryWindow is how long a soft-deleted record stays visible in the
// recently-deleted listing.
const RecoveryWindow = 5 * 365 * 24 * time.Hour

// AuditStamps are written on every mutation, in the same write as the change.
type AuditStamps struct {
	LastUpdatedBy         *uint  `json:"last_updated_by"`
	LastChangeDescription string `gorm:"size:255" json:"last_change_description"`
}

// SoftDelete marks a record removed without dropping the row.
type SoftDelete struct {
	IsDeleted bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	DeletedBy *uint      `json:"deleted_by"`
}

func (s *SoftDelete) MarkDeleted(userID uint) {
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
	s.DeletedBy = &userID
}

func (s *SoftDelete) ClearDeleted() {
	s.IsDeleted = false
	s.DeletedAt = nil
	s.DeletedBy = nil
}

// NotDeleted filters soft-deleted rows out of every normal read path.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted <> TRUE")
}

// RecentlyDeleted keeps only rows soft-deleted within the recovery window.
func RecentlyDeleted(db *gorm.DB) *gorm.DB {
	cutoff := time.Now().Add(-RecoveryWindow)
	return db.Where("is_deleted = TRUE AND deleted_at >= ?", cutoff)
}

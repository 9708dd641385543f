package models

import "time"

const (
	MinHours = 0.01
	MaxHours = 24
)

type TimeEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LawyerID    uint      `gorm:"not null;index" json:"lawyer_id"`
	Lawyer      *Lawyer   `json:"lawyer,omitempty"`
	MatterID    uint      `gorm:"not null;index" json:"matter_id"`
	Matter      *Matter   `json:"matter,omitempty"`
	Date        time.Time `gorm:"not null" json:"date"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Description string    `gorm:"size:500" json:"description"`
	Billable    bool      `gorm:"default:true" json:"billable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

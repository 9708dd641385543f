package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleLawyer     UserRole = "lawyer"
	RoleStaff      UserRole = "staff"
	RoleAccountant UserRole = "accountant"
)

func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleLawyer, RoleStaff, RoleAccountant:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`

	// Set iff Role == RoleLawyer; one User per Lawyer profile.
	LawyerID *uint   `gorm:"uniqueIndex" json:"lawyer_id"`
	Lawyer   *Lawyer `json:"lawyer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuditStamps
	SoftDelete
}

func (User) DeletionPolicy() DeletionPolicy { return DeletionSoft }

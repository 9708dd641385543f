package models

import "time"

type LawyerRank string

const (
	RankPartner         LawyerRank = "Partner"
	RankJuniorPartner   LawyerRank = "Junior Partner"
	RankSeniorAssociate LawyerRank = "Senior Associate"
	RankAssociate       LawyerRank = "Associate"
)

func ValidRank(r LawyerRank) bool {
	switch r {
	case RankPartner, RankJuniorPartner, RankSeniorAssociate, RankAssociate:
		return true
	}
	return false
}

// SeniorRank reports whether the rank may manage lawyer profiles.
func SeniorRank(r LawyerRank) bool {
	return r == RankPartner || r == RankJuniorPartner
}

type LawyerStatus string

const (
	LawyerActive   LawyerStatus = "Active"
	LawyerInactive LawyerStatus = "Inactive"
)

type Lawyer struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Initials  string       `gorm:"size:5;not null" json:"initials"`
	Email     string       `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Rank      LawyerRank   `gorm:"size:20;not null" json:"rank"`
	Status    LawyerStatus `gorm:"size:10;not null;default:Active" json:"status"`
	DateHired *time.Time   `json:"date_hired"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuditStamps
	SoftDelete
}

func (Lawyer) DeletionPolicy() DeletionPolicy { return DeletionSoft }

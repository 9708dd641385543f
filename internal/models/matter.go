package models

import (
	"regexp"
	"strings"
	"time"
)

type MatterStatus string

const (
	MatterActive   MatterStatus = "Active"
	MatterInactive MatterStatus = "Inactive"
	MatterClosed   MatterStatus = "Closed"
	MatterPending  MatterStatus = "Pending"
	MatterOpen     MatterStatus = "Open"
)

func ValidMatterStatus(s MatterStatus) bool {
	switch s {
	case MatterActive, MatterInactive, MatterClosed, MatterPending, MatterOpen:
		return true
	}
	return false
}

// Docket numbers are an external contract: single category digit, a dot,
// six alphanumerics (e.g. "5.AB12CD").
var docketRe = regexp.MustCompile(`^[0-9]\.[A-Za-z0-9]{6}$`)

func ValidDocketNumber(d string) bool {
	return docketRe.MatchString(d)
}

// DocketCategory returns the category prefix of a docket number.
func DocketCategory(d string) string {
	return strings.SplitN(d, ".", 2)[0]
}

type Matter struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	DocketNumber string       `gorm:"size:10;uniqueIndex;not null" json:"docket_number"`
	Category     string       `gorm:"size:1;not null" json:"category"`
	Status       MatterStatus `gorm:"size:10;not null;default:Active" json:"status"`
	Notes        string       `gorm:"type:text" json:"notes"`

	ClientID uint    `gorm:"not null;index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	// Lawyers working the matter. Always a superset of the client's owners.
	TeamAssigned []Lawyer `gorm:"many2many:matter_team" json:"team_assigned,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuditStamps
	SoftDelete
}

func (Matter) DeletionPolicy() DeletionPolicy { return DeletionSoft }

func (m *Matter) TeamIDs() []uint {
	ids := make([]uint, 0, len(m.TeamAssigned))
	for _, l := range m.TeamAssigned {
		ids = append(ids, l.ID)
	}
	return ids
}

func (m *Matter) OnTeam(lawyerID uint) bool {
	for _, l := range m.TeamAssigned {
		if l.ID == lawyerID {
			return true
		}
	}
	return false
}

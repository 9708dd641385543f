package models

import "time"

type VATStatus string

const (
	VATRegistered VATStatus = "VAT Registered"
	NonVAT        VATStatus = "Non-VAT"
	VATExempt     VATStatus = "VAT Exempt"
)

func ValidVATStatus(v VATStatus) bool {
	switch v {
	case VATRegistered, NonVAT, VATExempt:
		return true
	}
	return false
}

type Client struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:150;not null" json:"name"`
	IsBusinessEntity bool      `gorm:"default:false" json:"is_business_entity"`
	PresidentName    string    `gorm:"size:100" json:"president_name"`
	AuthorizedRep    string    `gorm:"size:100" json:"authorized_representative"`
	ContactEmail     string    `gorm:"size:100" json:"contact_email"`
	ContactPhone     string    `gorm:"size:30" json:"contact_phone"`
	Address          string    `gorm:"size:255" json:"address"`
	VATStatus        VATStatus `gorm:"size:20;not null" json:"vat_status"`

	// Lawyers who own/control the client relationship. Ownership always
	// implies membership in the team of every matter of this client.
	LawyerOwners []Lawyer `gorm:"many2many:client_owners" json:"lawyer_owners,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuditStamps
}

// Clients are the one entity type removed for real; admin only.
func (Client) DeletionPolicy() DeletionPolicy { return DeletionHard }

func (c *Client) OwnerIDs() []uint {
	ids := make([]uint, 0, len(c.LawyerOwners))
	for _, l := range c.LawyerOwners {
		ids = append(ids, l.ID)
	}
	return ids
}

func (c *Client) OwnedBy(lawyerID uint) bool {
	for _, l := range c.LawyerOwners {
		if l.ID == lawyerID {
			return true
		}
	}
	return false
}

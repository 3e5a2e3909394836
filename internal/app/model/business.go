package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BusinessStatus string

const (
	BusinessPending   BusinessStatus = "pending"
	BusinessApproved  BusinessStatus = "approved"
	BusinessRejected  BusinessStatus = "rejected"
	BusinessSuspended BusinessStatus = "suspended"
)

// Business is the restaurant profile. One per owner, never hard-deleted;
// visibility is controlled through Status.
type Business struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID         uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	BusinessName    string         `gorm:"not null" json:"business_name"`
	BusinessType    string         `gorm:"type:varchar(50)" json:"business_type"` // restaurant, cafe, bar, ...
	Location        string         `json:"location"`
	Hours           datatypes.JSON `json:"hours,omitempty"` // {"mon": "10:00-22:00", ...}
	LogoURL         *string        `json:"logo_url,omitempty"`
	CoverPhotoURL   *string        `json:"cover_photo_url,omitempty"`
	Status          BusinessStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BusinessPending
	}
	return nil
}

// IsPublic reports whether customers may see the business menu.
func (b *Business) IsPublic() bool {
	return b.Status == BusinessApproved
}

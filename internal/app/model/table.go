package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table is a physical table in a restaurant. TableNumber is unique per business.
type Table struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tables_business_number,priority:1" json:"business_id"`
	TableNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_tables_business_number,priority:2" json:"table_number"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	QRCodeURL   *string   `json:"qr_code_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Table) TableName() string {
	return "restaurant_tables"
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// RegularSizeName is the single variant of an item without multiple sizes.
	RegularSizeName = "Regular"
	// PlaceholderImageURL is served for items that have no image of their own.
	PlaceholderImageURL = "/images/menu-placeholder.png"
)

func init() {
	// prices render as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type MenuCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  *string   `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	TemplateID   *string   `gorm:"type:varchar(64)" json:"template_id"` // template provenance
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type MenuItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID       uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Name             string    `gorm:"not null" json:"name"`
	Description      *string   `gorm:"type:text" json:"description"`
	ImageURL         string    `gorm:"not null" json:"image_url"`
	IsAvailable      bool      `gorm:"not null" json:"is_available"`
	IsVegetarian     *bool     `json:"is_vegetarian"` // nil means no preference recorded
	DisplayOrder     int       `gorm:"not null;default:0" json:"display_order"`
	HasMultipleSizes bool      `gorm:"not null" json:"has_multiple_sizes"`
	TemplateItemID   *string   `gorm:"type:varchar(64)" json:"template_item_id"`
	IsCustom         bool      `gorm:"not null" json:"is_custom"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Category *MenuCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.ImageURL == "" {
		i.ImageURL = PlaceholderImageURL
	}
	return nil
}

type MenuItemSize struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_item_size_name,priority:1" json:"item_id"`
	SizeName     string          `gorm:"not null;uniqueIndex:idx_item_size_name,priority:2" json:"size_name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DisplayOrder int             `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time       `json:"created_at"`

	Item *MenuItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MenuItemSize) TableName() string {
	return "menu_item_sizes"
}

func (s *MenuItemSize) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// MenuSetupStatus records whether the bulk setup has been finalized for a business.
type MenuSetupStatus struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"business_id"`
	IsSetupComplete  bool       `gorm:"not null" json:"is_setup_complete"`
	SetupCompletedAt *time.Time `json:"setup_completed_at"`
	TotalCategories  int        `gorm:"not null" json:"total_categories"`
	TotalItems       int        `gorm:"not null" json:"total_items"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (MenuSetupStatus) TableName() string {
	return "menu_setup_status"
}

func (s *MenuSetupStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

package service

import (
	"errors"
	"fmt"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PublicRestaurant struct {
	ID            uuid.UUID      `json:"id"`
	BusinessName  string         `json:"business_name"`
	BusinessType  string         `json:"business_type"`
	Location      string         `json:"location"`
	Hours         datatypes.JSON `json:"hours,omitempty"`
	LogoURL       *string        `json:"logo_url,omitempty"`
	CoverPhotoURL *string        `json:"cover_photo_url,omitempty"`
}

type PublicTable struct {
	ID          uuid.UUID `json:"id"`
	TableNumber string    `json:"table_number"`
}

type PublicMenu struct {
	Restaurant PublicRestaurant `json:"restaurant"`
	Table      PublicTable      `json:"table"`
	Menu       CompleteMenu     `json:"menu"`
}

type PublicMenuService interface {
	ResolvePublicMenu(businessIDRaw, tableIDRaw string) (*PublicMenu, error)
	// ResolveTarget runs the same checks as ResolvePublicMenu without
	// loading the catalog.
	ResolveTarget(businessIDRaw, tableIDRaw string) (uuid.UUID, uuid.UUID, error)
}

type publicMenuService struct {
	businessRepo repository.BusinessRepository
	tableRepo    repository.TableRepository
	menuRepo     repository.MenuRepository
}

func NewPublicMenuService(
	businessRepo repository.BusinessRepository,
	tableRepo repository.TableRepository,
	menuRepo repository.MenuRepository,
) PublicMenuService {
	return &publicMenuService{
		businessRepo: businessRepo,
		tableRepo:    tableRepo,
		menuRepo:     menuRepo,
	}
}

// resolve maps every reason a customer cannot see the menu (bad ids, missing
// or unapproved business, missing, foreign or inactive table) to
// ErrMenuNotFound. Store failures are returned as-is.
func (s *publicMenuService) resolve(businessIDRaw, tableIDRaw string) (*model.Business, *model.Table, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, nil, ErrMenuNotFound
	}
	tableID, err := uuid.Parse(tableIDRaw)
	if err != nil {
		return nil, nil, ErrMenuNotFound
	}

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMenuNotFound
		}
		return nil, nil, fmt.Errorf("failed to load business: %w", err)
	}
	if !business.IsPublic() {
		logger.Debug("Public menu requested for non-public business", map[string]interface{}{
			"business_id": businessID,
			"status":      business.Status,
		})
		return nil, nil, ErrMenuNotFound
	}

	table, err := s.tableRepo.FindActiveByBusinessAndID(businessID, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMenuNotFound
		}
		return nil, nil, fmt.Errorf("failed to load table: %w", err)
	}
	return business, table, nil
}

func (s *publicMenuService) ResolveTarget(businessIDRaw, tableIDRaw string) (uuid.UUID, uuid.UUID, error) {
	business, table, err := s.resolve(businessIDRaw, tableIDRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return business.ID, table.ID, nil
}

// ResolvePublicMenu returns the customer view of a business menu: active
// categories with their available items only. It never writes.
func (s *publicMenuService) ResolvePublicMenu(businessIDRaw, tableIDRaw string) (*PublicMenu, error) {
	business, table, err := s.resolve(businessIDRaw, tableIDRaw)
	if err != nil {
		return nil, err
	}

	menu, err := loadMenu(s.menuRepo, business.ID, MenuReadOptions{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	return &PublicMenu{
		Restaurant: PublicRestaurant{
			ID:            business.ID,
			BusinessName:  business.BusinessName,
			BusinessType:  business.BusinessType,
			Location:      business.Location,
			Hours:         business.Hours,
			LogoURL:       business.LogoURL,
			CoverPhotoURL: business.CoverPhotoURL,
		},
		Table: PublicTable{
			ID:          table.ID,
			TableNumber: table.TableNumber,
		},
		Menu: *menu,
	}, nil
}

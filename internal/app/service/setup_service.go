package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/templates"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SetupItemInput struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url"`
	IsVegetarian   *bool           `json:"is_vegetarian"`
	TemplateItemID *string         `json:"template_item_id"`
	IsCustom       bool            `json:"is_custom"`
}

type SetupCategoryInput struct {
	TemplateID  *string          `json:"template_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Items       []SetupItemInput `json:"items"`
}

type CompleteSetupInput struct {
	Categories []SetupCategoryInput `json:"categories"`
}

type SetupCounts struct {
	Categories int `json:"categories"`
	Items      int `json:"items"`
}

type CompleteSetupResult struct {
	Message string                 `json:"message"`
	Counts  SetupCounts            `json:"counts"`
	Status  *model.MenuSetupStatus `json:"setup_status"`
	Menu    *CompleteMenu          `json:"menu"`
}

type SetupStatusResult struct {
	IsSetupComplete bool                   `json:"is_setup_complete"`
	SetupStatus     *model.MenuSetupStatus `json:"setup_status,omitempty"`
}

type SetupService interface {
	ListTemplates(query string) []templates.CategoryTemplate
	CompleteMenuSetup(businessID uuid.UUID, input CompleteSetupInput) (*CompleteSetupResult, error)
	CheckMenuSetupStatus(businessID uuid.UUID) (*SetupStatusResult, error)
}

type setupService struct {
	db         *gorm.DB
	menuRepo   repository.MenuRepository
	statusRepo repository.SetupStatusRepository
	publisher  MenuEventPublisher
}

func NewSetupService(
	db *gorm.DB,
	menuRepo repository.MenuRepository,
	statusRepo repository.SetupStatusRepository,
	publisher MenuEventPublisher,
) SetupService {
	return &setupService{
		db:         db,
		menuRepo:   menuRepo,
		statusRepo: statusRepo,
		publisher:  publisher,
	}
}

func (s *setupService) ListTemplates(query string) []templates.CategoryTemplate {
	return templates.Filter(query)
}

func validateSetup(input CompleteSetupInput) error {
	v := newValidationError()
	if len(input.Categories) == 0 {
		v.Add("categories", "select at least one category")
		return v
	}

	total := 0
	for ci, c := range input.Categories {
		field := fmt.Sprintf("categories[%d]", ci)
		validateName(v, field+".name", c.Name)
		for ii, it := range c.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, ii)
			validateName(v, itemField+".name", it.Name)
			if it.Price.IsNegative() {
				v.Add(itemField+".price", "price must not be negative")
			} else if it.Price.GreaterThan(maxPrice) {
				v.Add(itemField+".price", "price is too large")
			}
			total++
		}
	}
	if total == 0 {
		v.Add("items", "select at least one item")
	}
	return v.OrNil()
}

// CompleteMenuSetup creates every submitted category and item and marks setup
// complete, all in one transaction. New categories are placed after any
// existing ones so re-entering the wizard only appends.
func (s *setupService) CompleteMenuSetup(businessID uuid.UUID, input CompleteSetupInput) (*CompleteSetupResult, error) {
	logger.Info("Completing menu setup", map[string]interface{}{
		"business_id": businessID,
		"categories":  len(input.Categories),
	})

	if err := validateSetup(input); err != nil {
		return nil, err
	}

	counts := SetupCounts{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		menuRepo := s.menuRepo.WithTx(tx)
		statusRepo := s.statusRepo.WithTx(tx)

		maxOrder, err := menuRepo.MaxCategoryOrder(businessID)
		if err != nil {
			return err
		}

		for ci, c := range input.Categories {
			category := &model.MenuCategory{
				BusinessID:   businessID,
				Name:         strings.TrimSpace(c.Name),
				Description:  normalizeOptional(c.Description),
				DisplayOrder: maxOrder + 1 + ci,
				TemplateID:   normalizeOptional(c.TemplateID),
				IsActive:     true,
			}
			if err := menuRepo.CreateCategory(category); err != nil {
				return err
			}
			counts.Categories++

			for ii, it := range c.Items {
				item := &model.MenuItem{
					CategoryID:     category.ID,
					Name:           strings.TrimSpace(it.Name),
					Description:    normalizeOptional(it.Description),
					IsAvailable:    true,
					IsVegetarian:   it.IsVegetarian,
					DisplayOrder:   ii,
					TemplateItemID: normalizeOptional(it.TemplateItemID),
					IsCustom:       it.IsCustom,
				}
				if img := normalizeOptional(it.ImageURL); img != nil {
					item.ImageURL = *img
				}
				sizes := []model.MenuItemSize{{
					SizeName: model.RegularSizeName,
					Price:    it.Price.Round(2),
				}}
				if err := menuRepo.CreateItem(item, sizes); err != nil {
					return err
				}
				counts.Items++
			}
		}

		totalCategories, totalItems, err := menuRepo.CountByBusiness(businessID)
		if err != nil {
			return err
		}
		now := time.Now()
		return statusRepo.Upsert(&model.MenuSetupStatus{
			BusinessID:       businessID,
			IsSetupComplete:  true,
			SetupCompletedAt: &now,
			TotalCategories:  int(totalCategories),
			TotalItems:       int(totalItems),
		})
	})
	if err != nil {
		logger.Error("Menu setup failed, nothing was saved", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, fmt.Errorf("failed to complete menu setup: %w", err)
	}

	s.publishUpdate(businessID)

	// the stored menu, not the submitted draft, is what the caller sees next
	menu, err := loadMenu(s.menuRepo, businessID, MenuReadOptions{})
	if err != nil {
		return nil, err
	}
	status, err := s.statusRepo.FindByBusiness(businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load setup status: %w", err)
	}

	logger.Info("Menu setup completed", map[string]interface{}{
		"business_id": businessID,
		"categories":  counts.Categories,
		"items":       counts.Items,
	})

	return &CompleteSetupResult{
		Message: fmt.Sprintf("Menu setup complete: %d categories and %d items created", counts.Categories, counts.Items),
		Counts:  counts,
		Status:  status,
		Menu:    menu,
	}, nil
}

func (s *setupService) publishUpdate(businessID uuid.UUID) {
	if s.publisher != nil {
		s.publisher.PublishMenuUpdated(businessID)
	}
}

func (s *setupService) CheckMenuSetupStatus(businessID uuid.UUID) (*SetupStatusResult, error) {
	status, err := s.statusRepo.FindByBusiness(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SetupStatusResult{IsSetupComplete: false}, nil
		}
		return nil, fmt.Errorf("failed to load setup status: %w", err)
	}
	return &SetupStatusResult{
		IsSetupComplete: status.IsSetupComplete,
		SetupStatus:     status,
	}, nil
}

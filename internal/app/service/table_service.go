package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/storage"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/qrcard"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTableNumberLength = 20

type CreateTableInput struct {
	TableNumber string `json:"table_number"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateTableInput struct {
	TableNumber *string `json:"table_number"`
	IsActive    *bool   `json:"is_active"`
}

type TableQRCode struct {
	QRCodeDataURL  string `json:"qr_code_data_url"`
	MenuURL        string `json:"menu_url"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	FileURL        string `json:"file_url,omitempty"`
}

type TableService interface {
	CreateTable(businessID uuid.UUID, input CreateTableInput) (*model.Table, error)
	UpdateTable(businessID, tableID uuid.UUID, input UpdateTableInput) (*model.Table, error)
	DeleteTable(businessID, tableID uuid.UUID) error
	ListTables(businessID uuid.UUID) ([]model.Table, error)
	GetTable(businessID, tableID uuid.UUID) (*model.Table, error)
	GenerateQRCode(businessID, tableID uuid.UUID) (*TableQRCode, error)
	GenerateQRCodeWithTemplate(ctx context.Context, businessID, tableID uuid.UUID, upload bool) (*TableQRCode, error)
	BackfillQRCodeURLs(limit int) (int, error)
}

type tableService struct {
	tableRepo    repository.TableRepository
	businessRepo repository.BusinessRepository
	storage      storage.ObjectStorage
	baseURL      string
}

// NewTableService builds the table registry. objectStorage may be nil, in
// which case printable cards are never uploaded.
func NewTableService(
	tableRepo repository.TableRepository,
	businessRepo repository.BusinessRepository,
	objectStorage storage.ObjectStorage,
	baseURL string,
) TableService {
	return &tableService{
		tableRepo:    tableRepo,
		businessRepo: businessRepo,
		storage:      objectStorage,
		baseURL:      baseURL,
	}
}

// BuildMenuURL returns {base}/menu/{businessID}/{tableID}. QR codes already
// printed depend on this exact shape.
func BuildMenuURL(baseURL string, businessID, tableID uuid.UUID) string {
	return fmt.Sprintf("%s/menu/%s/%s", strings.TrimRight(baseURL, "/"), businessID, tableID)
}

func validateTableNumber(raw string) (string, error) {
	number := strings.TrimSpace(raw)
	switch {
	case number == "":
		return "", fieldError("table_number", "table number is required")
	case utf8.RuneCountInString(number) > maxTableNumberLength:
		return "", fieldError("table_number", fmt.Sprintf("table number must be at most %d characters", maxTableNumberLength))
	}
	return number, nil
}

func (s *tableService) ensureNumberFree(businessID uuid.UUID, number string, excludeID *uuid.UUID) error {
	exists, err := s.tableRepo.ExistsByNumber(businessID, number, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check table number: %w", err)
	}
	if exists {
		logger.Warn("Table number already exists", map[string]interface{}{
			"business_id":  businessID,
			"table_number": number,
		})
		return ErrTableNumberExists
	}
	return nil
}

func (s *tableService) CreateTable(businessID uuid.UUID, input CreateTableInput) (*model.Table, error) {
	number, err := validateTableNumber(input.TableNumber)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(businessID, number, nil); err != nil {
		return nil, err
	}

	table := &model.Table{
		BusinessID:  businessID,
		TableNumber: number,
		IsActive:    true,
	}
	if input.IsActive != nil {
		table.IsActive = *input.IsActive
	}

	// the unique index catches a concurrent create the pre-check missed
	if err := s.tableRepo.Create(table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableNumberExists
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Table created", map[string]interface{}{
		"business_id":  businessID,
		"table_id":     table.ID,
		"table_number": number,
	})
	return table, nil
}

func (s *tableService) GetTable(businessID, tableID uuid.UUID) (*model.Table, error) {
	table, err := s.tableRepo.FindByBusinessAndID(businessID, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to load table: %w", err)
	}
	return table, nil
}

func (s *tableService) UpdateTable(businessID, tableID uuid.UUID, input UpdateTableInput) (*model.Table, error) {
	table, err := s.GetTable(businessID, tableID)
	if err != nil {
		return nil, err
	}

	if input.TableNumber != nil {
		number, err := validateTableNumber(*input.TableNumber)
		if err != nil {
			return nil, err
		}
		if number != table.TableNumber {
			if err := s.ensureNumberFree(businessID, number, &table.ID); err != nil {
				return nil, err
			}
			table.TableNumber = number
		}
	}
	if input.IsActive != nil {
		table.IsActive = *input.IsActive
	}

	if err := s.tableRepo.Update(table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableNumberExists
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	logger.Info("Table updated", map[string]interface{}{
		"business_id": businessID,
		"table_id":    tableID,
		"is_active":   table.IsActive,
	})
	return table, nil
}

func (s *tableService) DeleteTable(businessID, tableID uuid.UUID) error {
	if _, err := s.GetTable(businessID, tableID); err != nil {
		return err
	}
	if err := s.tableRepo.Delete(tableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}

	logger.Info("Table deleted", map[string]interface{}{
		"business_id": businessID,
		"table_id":    tableID,
	})
	return nil
}

func (s *tableService) ListTables(businessID uuid.UUID) ([]model.Table, error) {
	tables, err := s.tableRepo.FindByBusiness(businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// persistMenuURL stores the menu URL on the table. Failures are logged only;
// the QR code is valid either way.
func (s *tableService) persistMenuURL(table *model.Table, menuURL string) {
	if table.QRCodeURL != nil && *table.QRCodeURL == menuURL {
		return
	}
	if err := s.tableRepo.UpdateQRCodeURL(table.ID, menuURL); err != nil {
		logger.Warn("Failed to persist table QR URL", map[string]interface{}{
			"table_id": table.ID,
			"error":    err.Error(),
		})
		return
	}
	table.QRCodeURL = &menuURL
}

func (s *tableService) GenerateQRCode(businessID, tableID uuid.UUID) (*TableQRCode, error) {
	table, err := s.GetTable(businessID, tableID)
	if err != nil {
		return nil, err
	}

	menuURL := BuildMenuURL(s.baseURL, businessID, table.ID)
	png, err := qrcard.EncodePNG(menuURL, qrcard.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	s.persistMenuURL(table, menuURL)

	logger.Info("Table QR code generated", map[string]interface{}{
		"business_id": businessID,
		"table_id":    tableID,
	})
	return &TableQRCode{
		QRCodeDataURL: qrcard.DataURL(png),
		MenuURL:       menuURL,
	}, nil
}

// GenerateQRCodeWithTemplate draws the QR code onto a printable card with
// the restaurant name and table number. With upload set the card is also
// stored in object storage; an upload failure only omits FileURL.
func (s *tableService) GenerateQRCodeWithTemplate(ctx context.Context, businessID, tableID uuid.UUID, upload bool) (*TableQRCode, error) {
	table, err := s.GetTable(businessID, tableID)
	if err != nil {
		return nil, err
	}
	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	menuURL := BuildMenuURL(s.baseURL, businessID, table.ID)
	qr, err := qrcard.Encode(menuURL, qrcard.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	card := qrcard.ComposeCard(qr, business.BusinessName, table.TableNumber)
	png, err := qrcard.PNG(card)
	if err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	s.persistMenuURL(table, menuURL)

	result := &TableQRCode{
		QRCodeDataURL:  qrcard.DataURL(png),
		MenuURL:        menuURL,
		RestaurantName: business.BusinessName,
	}

	if upload && s.storage != nil {
		fileURL, err := s.storage.Upload(ctx, storage.FolderQRCards, ".png", "image/png", png)
		if err != nil {
			logger.Warn("Failed to upload QR card", map[string]interface{}{
				"table_id": tableID,
				"error":    err.Error(),
			})
		} else {
			result.FileURL = fileURL
		}
	}

	logger.Info("Table QR card generated", map[string]interface{}{
		"business_id": businessID,
		"table_id":    tableID,
		"uploaded":    result.FileURL != "",
	})
	return result, nil
}

// BackfillQRCodeURLs fills qr_code_url for up to limit tables that have
// never had a QR code generated and returns how many were updated.
func (s *tableService) BackfillQRCodeURLs(limit int) (int, error) {
	tables, err := s.tableRepo.FindMissingQRCode(limit)
	if err != nil {
		return 0, fmt.Errorf("failed to find tables without QR URL: %w", err)
	}

	updated := 0
	for _, t := range tables {
		menuURL := BuildMenuURL(s.baseURL, t.BusinessID, t.ID)
		if err := s.tableRepo.UpdateQRCodeURL(t.ID, menuURL); err != nil {
			logger.Warn("Failed to backfill table QR URL", map[string]interface{}{
				"table_id": t.ID,
				"error":    err.Error(),
			})
			continue
		}
		updated++
	}
	return updated, nil
}

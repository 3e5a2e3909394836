package repository

import (
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(table *model.Table) error
	FindByBusinessAndID(businessID, tableID uuid.UUID) (*model.Table, error)
	FindActiveByBusinessAndID(businessID, tableID uuid.UUID) (*model.Table, error)
	FindByBusiness(businessID uuid.UUID) ([]model.Table, error)
	ExistsByNumber(businessID uuid.UUID, tableNumber string, excludeID *uuid.UUID) (bool, error)
	Update(table *model.Table) error
	UpdateQRCodeURL(tableID uuid.UUID, url string) error
	Delete(tableID uuid.UUID) error
	FindMissingQRCode(limit int) ([]model.Table, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(table *model.Table) error {
	logger.Debug("Creating table in database", map[string]interface{}{
		"business_id":  table.BusinessID,
		"table_number": table.TableNumber,
	})

	if err := r.db.Create(table).Error; err != nil {
		logger.Error("Failed to create table in database", err, map[string]interface{}{
			"business_id":  table.BusinessID,
			"table_number": table.TableNumber,
		})
		return err
	}
	return nil
}

func (r *tableRepository) FindByBusinessAndID(businessID, tableID uuid.UUID) (*model.Table, error) {
	var table model.Table
	err := r.db.Where("id = ? AND business_id = ?", tableID, businessID).First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// FindActiveByBusinessAndID returns gorm.ErrRecordNotFound for inactive tables
// exactly as for missing ones.
func (r *tableRepository) FindActiveByBusinessAndID(businessID, tableID uuid.UUID) (*model.Table, error) {
	var table model.Table
	err := r.db.Where("id = ? AND business_id = ? AND is_active = ?", tableID, businessID, true).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) FindByBusiness(businessID uuid.UUID) ([]model.Table, error) {
	var tables []model.Table
	if err := r.db.Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&tables).Error; err != nil {
		logger.Error("Failed to list tables", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return tables, nil
}

// ExistsByNumber is an exact, case-sensitive match on table_number.
func (r *tableRepository) ExistsByNumber(businessID uuid.UUID, tableNumber string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&model.Table{}).
		Where("business_id = ? AND table_number = ?", businessID, tableNumber)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tableRepository) Update(table *model.Table) error {
	if err := r.db.Omit("Business").Save(table).Error; err != nil {
		logger.Error("Failed to update table", err, map[string]interface{}{
			"table_id": table.ID,
		})
		return err
	}
	return nil
}

func (r *tableRepository) UpdateQRCodeURL(tableID uuid.UUID, url string) error {
	return r.db.Model(&model.Table{}).
		Where("id = ?", tableID).
		Update("qr_code_url", url).Error
}

func (r *tableRepository) Delete(tableID uuid.UUID) error {
	result := r.db.Delete(&model.Table{}, "id = ?", tableID)
	if result.Error != nil {
		logger.Error("Failed to delete table", result.Error, map[string]interface{}{
			"table_id": tableID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tableRepository) FindMissingQRCode(limit int) ([]model.Table, error) {
	var tables []model.Table
	query := r.db.Where("qr_code_url IS NULL OR qr_code_url = ''").Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

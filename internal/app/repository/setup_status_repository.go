package repository

import (
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SetupStatusRepository interface {
	FindByBusiness(businessID uuid.UUID) (*model.MenuSetupStatus, error)
	Upsert(status *model.MenuSetupStatus) error
	WithTx(tx *gorm.DB) SetupStatusRepository
}

type setupStatusRepository struct {
	db *gorm.DB
}

func NewSetupStatusRepository(db *gorm.DB) SetupStatusRepository {
	return &setupStatusRepository{db: db}
}

func (r *setupStatusRepository) WithTx(tx *gorm.DB) SetupStatusRepository {
	return &setupStatusRepository{db: tx}
}

func (r *setupStatusRepository) FindByBusiness(businessID uuid.UUID) (*model.MenuSetupStatus, error) {
	var status model.MenuSetupStatus
	if err := r.db.Where("business_id = ?", businessID).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// Upsert writes the single status row of a business. SetupCompletedAt is
// only set by the first write that carries one.
func (r *setupStatusRepository) Upsert(status *model.MenuSetupStatus) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}},
		DoUpdates: append(clause.AssignmentColumns([]string{
			"is_setup_complete",
			"total_categories",
			"total_items",
			"updated_at",
		}), clause.Assignment{
			// the first completion time is kept
			Column: clause.Column{Name: "setup_completed_at"},
			Value:  gorm.Expr("COALESCE(menu_setup_status.setup_completed_at, excluded.setup_completed_at)"),
		}),
	}).Create(status).Error
	if err != nil {
		logger.Error("Failed to upsert menu setup status", err, map[string]interface{}{
			"business_id": status.BusinessID,
		})
		return err
	}
	return nil
}

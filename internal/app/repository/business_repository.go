package repository

import (
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessFilter struct {
	Status *model.BusinessStatus
	Search string
	Limit  int
	Offset int
}

type BusinessRepository interface {
	Create(business *model.Business) error
	FindByID(id uuid.UUID) (*model.Business, error)
	FindByIDWithOwner(id uuid.UUID) (*model.Business, error)
	FindByOwnerID(ownerID uuid.UUID) (*model.Business, error)
	FindAll(filter BusinessFilter) ([]model.Business, int64, error)
	Update(business *model.Business) error
	WithTx(tx *gorm.DB) BusinessRepository
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) WithTx(tx *gorm.DB) BusinessRepository {
	return &businessRepository{db: tx}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"owner_id":      business.OwnerID,
		"business_name": business.BusinessName,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"owner_id": business.OwnerID,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"status":      business.Status,
	})
	return nil
}

func (r *businessRepository) FindByID(id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, "id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find business by ID", err, map[string]interface{}{
				"business_id": id,
			})
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByIDWithOwner(id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := r.db.Preload("Owner").First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByOwnerID(ownerID uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("owner_id = ?", ownerID).First(&business).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find business by owner", err, map[string]interface{}{
				"owner_id": ownerID,
			})
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindAll(filter BusinessFilter) ([]model.Business, int64, error) {
	logger.Debug("Listing businesses", map[string]interface{}{
		"status": filter.Status,
		"search": filter.Search,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})

	query := r.db.Model(&model.Business{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(business_name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count businesses", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var businesses []model.Business
	if err := query.Order("created_at DESC").Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err)
		return nil, 0, err
	}
	return businesses, total, nil
}

func (r *businessRepository) Update(business *model.Business) error {
	if err := r.db.Omit("Owner").Save(business).Error; err != nil {
		logger.Error("Failed to update business", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

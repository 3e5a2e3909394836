package repository

import (
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const displayOrdering = "display_order ASC, created_at ASC"

// DisplayOrderUpdate assigns a new position to one category or item.
type DisplayOrderUpdate struct {
	ID           uuid.UUID `json:"id" binding:"required"`
	DisplayOrder int       `json:"display_order"`
}

type MenuRepository interface {
	WithTx(tx *gorm.DB) MenuRepository

	CreateCategory(category *model.MenuCategory) error
	FindCategoryByID(businessID, categoryID uuid.UUID) (*model.MenuCategory, error)
	FindCategoriesByBusiness(businessID uuid.UUID, activeOnly bool) ([]model.MenuCategory, error)
	UpdateCategory(category *model.MenuCategory) error
	DeleteCategory(categoryID uuid.UUID) error
	MaxCategoryOrder(businessID uuid.UUID) (int, error)
	UpdateCategoryOrder(businessID uuid.UUID, updates []DisplayOrderUpdate) (int64, error)

	CreateItem(item *model.MenuItem, sizes []model.MenuItemSize) error
	FindItemByID(businessID, itemID uuid.UUID) (*model.MenuItem, error)
	FindItemsByCategories(categoryIDs []uuid.UUID, availableOnly bool) ([]model.MenuItem, error)
	UpdateItem(item *model.MenuItem, sizes []model.MenuItemSize) error
	SetItemAvailability(itemID uuid.UUID, available bool) error
	DeleteItem(itemID uuid.UUID) error
	MaxItemOrder(categoryID uuid.UUID) (int, error)
	UpdateItemOrder(categoryID uuid.UUID, updates []DisplayOrderUpdate) (int64, error)

	FindSizesByItems(itemIDs []uuid.UUID) ([]model.MenuItemSize, error)
	CountByBusiness(businessID uuid.UUID) (categories int64, items int64, err error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) WithTx(tx *gorm.DB) MenuRepository {
	return &menuRepository{db: tx}
}

// ==================== categories ====================

func (r *menuRepository) CreateCategory(category *model.MenuCategory) error {
	logger.Debug("Creating menu category", map[string]interface{}{
		"business_id": category.BusinessID,
		"name":        category.Name,
	})

	if err := r.db.Omit("Business").Create(category).Error; err != nil {
		logger.Error("Failed to create menu category", err, map[string]interface{}{
			"business_id": category.BusinessID,
			"name":        category.Name,
		})
		return err
	}
	return nil
}

// FindCategoryByID scopes the lookup to the business, so categories of
// another business are reported as not found.
func (r *menuRepository) FindCategoryByID(businessID, categoryID uuid.UUID) (*model.MenuCategory, error) {
	var category model.MenuCategory
	err := r.db.Where("id = ? AND business_id = ?", categoryID, businessID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) FindCategoriesByBusiness(businessID uuid.UUID, activeOnly bool) ([]model.MenuCategory, error) {
	query := r.db.Where("business_id = ?", businessID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.MenuCategory
	if err := query.Order(displayOrdering).Find(&categories).Error; err != nil {
		logger.Error("Failed to list menu categories", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return categories, nil
}

func (r *menuRepository) UpdateCategory(category *model.MenuCategory) error {
	if err := r.db.Omit("Business").Save(category).Error; err != nil {
		logger.Error("Failed to update menu category", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

// DeleteCategory removes the category, its items and their sizes in one transaction.
func (r *menuRepository) DeleteCategory(categoryID uuid.UUID) error {
	logger.Debug("Deleting menu category with items", map[string]interface{}{
		"category_id": categoryID,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&model.MenuItem{}).Select("id").Where("category_id = ?", categoryID)

		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&model.MenuItemSize{}).Error; err != nil {
			logger.Error("Failed to delete sizes of category", err, map[string]interface{}{
				"category_id": categoryID,
			})
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&model.MenuItem{}).Error; err != nil {
			logger.Error("Failed to delete items of category", err, map[string]interface{}{
				"category_id": categoryID,
			})
			return err
		}

		result := tx.Delete(&model.MenuCategory{}, "id = ?", categoryID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MaxCategoryOrder returns -1 when the business has no categories.
func (r *menuRepository) MaxCategoryOrder(businessID uuid.UUID) (int, error) {
	var maxOrder int
	err := r.db.Model(&model.MenuCategory{}).
		Where("business_id = ?", businessID).
		Select("COALESCE(MAX(display_order), -1)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *menuRepository) UpdateCategoryOrder(businessID uuid.UUID, updates []DisplayOrderUpdate) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&model.MenuCategory{}).
				Where("id = ? AND business_id = ?", u.ID, businessID).
				Update("display_order", u.DisplayOrder)
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
		}
		return nil
	})
	return affected, err
}

// ==================== items ====================

// CreateItem inserts the item and its sizes atomically.
func (r *menuRepository) CreateItem(item *model.MenuItem, sizes []model.MenuItemSize) error {
	logger.Debug("Creating menu item", map[string]interface{}{
		"category_id": item.CategoryID,
		"name":        item.Name,
		"sizes":       len(sizes),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").Create(item).Error; err != nil {
			return err
		}
		for i := range sizes {
			sizes[i].ItemID = item.ID
		}
		if len(sizes) > 0 {
			if err := tx.Omit("Item").Create(&sizes).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create menu item", err, map[string]interface{}{
			"category_id": item.CategoryID,
			"name":        item.Name,
		})
		return err
	}
	return nil
}

// FindItemByID only finds items whose category belongs to businessID.
func (r *menuRepository) FindItemByID(businessID, itemID uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Where("menu_items.id = ? AND menu_categories.business_id = ?", itemID, businessID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) FindItemsByCategories(categoryIDs []uuid.UUID, availableOnly bool) ([]model.MenuItem, error) {
	if len(categoryIDs) == 0 {
		return []model.MenuItem{}, nil
	}

	query := r.db.Where("category_id IN ?", categoryIDs)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []model.MenuItem
	if err := query.Order(displayOrdering).Find(&items).Error; err != nil {
		logger.Error("Failed to list menu items", err, map[string]interface{}{
			"categories": len(categoryIDs),
		})
		return nil, err
	}
	return items, nil
}

// UpdateItem saves the item. A non-nil sizes slice replaces every existing
// size of the item in the same transaction.
func (r *menuRepository) UpdateItem(item *model.MenuItem, sizes []model.MenuItemSize) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").Save(item).Error; err != nil {
			return err
		}
		if sizes == nil {
			return nil
		}

		if err := tx.Where("item_id = ?", item.ID).Delete(&model.MenuItemSize{}).Error; err != nil {
			return err
		}
		for i := range sizes {
			sizes[i].ID = uuid.Nil
			sizes[i].ItemID = item.ID
		}
		if len(sizes) > 0 {
			return tx.Omit("Item").Create(&sizes).Error
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update menu item", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *menuRepository) SetItemAvailability(itemID uuid.UUID, available bool) error {
	return r.db.Model(&model.MenuItem{}).
		Where("id = ?", itemID).
		Update("is_available", available).Error
}

// DeleteItem removes the item and its sizes in one transaction.
func (r *menuRepository) DeleteItem(itemID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&model.MenuItemSize{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.MenuItem{}, "id = ?", itemID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MaxItemOrder returns -1 when the category has no items.
func (r *menuRepository) MaxItemOrder(categoryID uuid.UUID) (int, error) {
	var maxOrder int
	err := r.db.Model(&model.MenuItem{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(MAX(display_order), -1)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *menuRepository) UpdateItemOrder(categoryID uuid.UUID, updates []DisplayOrderUpdate) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&model.MenuItem{}).
				Where("id = ? AND category_id = ?", u.ID, categoryID).
				Update("display_order", u.DisplayOrder)
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
		}
		return nil
	})
	return affected, err
}

// ==================== sizes ====================

func (r *menuRepository) FindSizesByItems(itemIDs []uuid.UUID) ([]model.MenuItemSize, error) {
	if len(itemIDs) == 0 {
		return []model.MenuItemSize{}, nil
	}

	var sizes []model.MenuItemSize
	if err := r.db.Where("item_id IN ?", itemIDs).
		Order(displayOrdering).
		Find(&sizes).Error; err != nil {
		logger.Error("Failed to list menu item sizes", err, map[string]interface{}{
			"items": len(itemIDs),
		})
		return nil, err
	}
	return sizes, nil
}

func (r *menuRepository) CountByBusiness(businessID uuid.UUID) (int64, int64, error) {
	var categories int64
	if err := r.db.Model(&model.MenuCategory{}).
		Where("business_id = ?", businessID).
		Count(&categories).Error; err != nil {
		return 0, 0, err
	}

	var items int64
	if err := r.db.Model(&model.MenuItem{}).
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Where("menu_categories.business_id = ?", businessID).
		Count(&items).Error; err != nil {
		return 0, 0, err
	}
	return categories, items, nil
}

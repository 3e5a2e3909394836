package service

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/menusheet"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxNameLength     = 100
	maxSizeNameLength = 50
)

// prices are stored as decimal(10,2)
var maxPrice = decimal.RequireFromString("99999999.99")

// MenuEventPublisher is notified after every committed catalog write.
type MenuEventPublisher interface {
	PublishMenuUpdated(businessID uuid.UUID)
}

type CreateCategoryInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	TemplateID   *string `json:"template_id"`
}

type UpdateCategoryInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

type SizeInput struct {
	SizeName string          `json:"size_name"`
	Price    decimal.Decimal `json:"price"`
}

type CreateItemInput struct {
	CategoryID       uuid.UUID   `json:"category_id"`
	Name             string      `json:"name"`
	Description      *string     `json:"description"`
	ImageURL         *string     `json:"image_url"`
	IsVegetarian     *bool       `json:"is_vegetarian"`
	IsAvailable      *bool       `json:"is_available"`
	DisplayOrder     *int        `json:"display_order"`
	TemplateItemID   *string     `json:"template_item_id"`
	IsCustom         bool        `json:"is_custom"`
	HasMultipleSizes bool        `json:"has_multiple_sizes"`
	Sizes            []SizeInput `json:"sizes"`
}

// UpdateItemInput is a partial update. A nil Sizes leaves sizes untouched;
// any non-nil Sizes replaces all of them.
type UpdateItemInput struct {
	CategoryID       *uuid.UUID        `json:"category_id"`
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	ImageURL         *string           `json:"image_url"`
	IsVegetarian     util.NullableBool `json:"is_vegetarian"`
	IsAvailable      *bool             `json:"is_available"`
	DisplayOrder     *int              `json:"display_order"`
	HasMultipleSizes *bool             `json:"has_multiple_sizes"`
	Sizes            []SizeInput       `json:"sizes"`
}

type MenuReadOptions struct {
	IncludeInactive bool
	AvailableOnly   bool
}

type MenuItemView struct {
	model.MenuItem
	Sizes        []model.MenuItemSize `json:"sizes"`
	PriceDisplay string               `json:"price_display"`
}

type MenuCategoryView struct {
	model.MenuCategory
	Items []MenuItemView `json:"items"`
}

type CompleteMenu struct {
	Categories []MenuCategoryView `json:"categories"`
}

// Counts returns the number of categories and items in the menu.
func (m *CompleteMenu) Counts() (categories, items int) {
	for _, c := range m.Categories {
		items += len(c.Items)
	}
	return len(m.Categories), items
}

type MenuService interface {
	CreateCategory(businessID uuid.UUID, input CreateCategoryInput) (*model.MenuCategory, error)
	UpdateCategory(businessID, categoryID uuid.UUID, input UpdateCategoryInput) (*model.MenuCategory, error)
	DeleteCategory(businessID, categoryID uuid.UUID) error
	ReorderCategories(businessID uuid.UUID, updates []repository.DisplayOrderUpdate) error

	CreateItem(businessID uuid.UUID, input CreateItemInput) (*MenuItemView, error)
	UpdateItem(businessID, itemID uuid.UUID, input UpdateItemInput) (*MenuItemView, error)
	DeleteItem(businessID, itemID uuid.UUID) error
	ToggleItemAvailability(businessID, itemID uuid.UUID, available *bool) (*model.MenuItem, error)
	ReorderItems(businessID, categoryID uuid.UUID, updates []repository.DisplayOrderUpdate) error

	GetCompleteMenu(businessID uuid.UUID, opts MenuReadOptions) (*CompleteMenu, error)
	ExportMenuXLSX(businessID uuid.UUID) ([]byte, error)
	ImportMenu(businessID uuid.UUID, categories []menusheet.Category) (int, int, error)
}

type menuService struct {
	db        *gorm.DB
	menuRepo  repository.MenuRepository
	publisher MenuEventPublisher
}

// NewMenuService builds the catalog service. publisher may be nil.
func NewMenuService(db *gorm.DB, menuRepo repository.MenuRepository, publisher MenuEventPublisher) MenuService {
	return &menuService{
		db:        db,
		menuRepo:  menuRepo,
		publisher: publisher,
	}
}

func (s *menuService) publish(businessID uuid.UUID) {
	if s.publisher != nil {
		s.publisher.PublishMenuUpdated(businessID)
	}
}

// ==================== categories ====================

func (s *menuService) CreateCategory(businessID uuid.UUID, input CreateCategoryInput) (*model.MenuCategory, error) {
	logger.Debug("Creating menu category", map[string]interface{}{
		"business_id": businessID,
		"name":        input.Name,
	})

	v := newValidationError()
	name := validateName(v, "name", input.Name)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	category := &model.MenuCategory{
		BusinessID:  businessID,
		Name:        name,
		Description: normalizeOptional(input.Description),
		TemplateID:  normalizeOptional(input.TemplateID),
		IsActive:    true,
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}

	if err := s.menuRepo.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logger.Info("Menu category created", map[string]interface{}{
		"business_id": businessID,
		"category_id": category.ID,
	})
	s.publish(businessID)
	return category, nil
}

func (s *menuService) findCategory(businessID, categoryID uuid.UUID) (*model.MenuCategory, error) {
	category, err := s.menuRepo.FindCategoryByID(businessID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (s *menuService) UpdateCategory(businessID, categoryID uuid.UUID, input UpdateCategoryInput) (*model.MenuCategory, error) {
	logger.Debug("Updating menu category", map[string]interface{}{
		"business_id": businessID,
		"category_id": categoryID,
	})

	category, err := s.findCategory(businessID, categoryID)
	if err != nil {
		return nil, err
	}

	v := newValidationError()
	if input.Name != nil {
		category.Name = validateName(v, "name", *input.Name)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if input.Description != nil {
		category.Description = normalizeOptional(input.Description)
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.menuRepo.UpdateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	logger.Info("Menu category updated", map[string]interface{}{
		"business_id": businessID,
		"category_id": categoryID,
	})
	s.publish(businessID)
	return category, nil
}

func (s *menuService) DeleteCategory(businessID, categoryID uuid.UUID) error {
	if _, err := s.findCategory(businessID, categoryID); err != nil {
		return err
	}

	if err := s.menuRepo.DeleteCategory(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	logger.Info("Menu category deleted", map[string]interface{}{
		"business_id": businessID,
		"category_id": categoryID,
	})
	s.publish(businessID)
	return nil
}

func (s *menuService) ReorderCategories(businessID uuid.UUID, updates []repository.DisplayOrderUpdate) error {
	if len(updates) == 0 {
		return fieldError("categories", "at least one category is required")
	}

	categories, err := s.menuRepo.FindCategoriesByBusiness(businessID, false)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(categories))
	for _, c := range categories {
		owned[c.ID] = struct{}{}
	}
	for _, u := range updates {
		if _, ok := owned[u.ID]; !ok {
			return ErrCategoryNotFound
		}
	}

	if _, err := s.menuRepo.UpdateCategoryOrder(businessID, updates); err != nil {
		return fmt.Errorf("failed to reorder categories: %w", err)
	}

	logger.Info("Menu categories reordered", map[string]interface{}{
		"business_id": businessID,
		"count":       len(updates),
	})
	s.publish(businessID)
	return nil
}

// ==================== items ====================

func (s *menuService) CreateItem(businessID uuid.UUID, input CreateItemInput) (*MenuItemView, error) {
	logger.Debug("Creating menu item", map[string]interface{}{
		"business_id": businessID,
		"category_id": input.CategoryID,
		"name":        input.Name,
	})

	v := newValidationError()
	name := validateName(v, "name", input.Name)
	sizes := validateSizes(v, input.HasMultipleSizes, input.Sizes)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.findCategory(businessID, input.CategoryID); err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		CategoryID:       input.CategoryID,
		Name:             name,
		Description:      normalizeOptional(input.Description),
		IsAvailable:      true,
		IsVegetarian:     input.IsVegetarian,
		TemplateItemID:   normalizeOptional(input.TemplateItemID),
		IsCustom:         input.IsCustom,
		HasMultipleSizes: input.HasMultipleSizes,
	}
	if input.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.DisplayOrder != nil {
		item.DisplayOrder = *input.DisplayOrder
	}

	if err := s.menuRepo.CreateItem(item, sizes); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	logger.Info("Menu item created", map[string]interface{}{
		"business_id": businessID,
		"item_id":     item.ID,
		"sizes":       len(sizes),
	})
	s.publish(businessID)
	return newItemView(*item, sizes), nil
}

func (s *menuService) findItem(businessID, itemID uuid.UUID) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindItemByID(businessID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return item, nil
}

func (s *menuService) UpdateItem(businessID, itemID uuid.UUID, input UpdateItemInput) (*MenuItemView, error) {
	logger.Debug("Updating menu item", map[string]interface{}{
		"business_id": businessID,
		"item_id":     itemID,
		"sizes":       input.Sizes != nil,
	})

	item, err := s.findItem(businessID, itemID)
	if err != nil {
		return nil, err
	}

	v := newValidationError()
	if input.Name != nil {
		item.Name = validateName(v, "name", *input.Name)
	}

	multipleChanged := input.HasMultipleSizes != nil && *input.HasMultipleSizes != item.HasMultipleSizes
	if input.HasMultipleSizes != nil {
		item.HasMultipleSizes = *input.HasMultipleSizes
	}

	var sizes []model.MenuItemSize
	switch {
	case input.Sizes != nil:
		sizes = validateSizes(v, item.HasMultipleSizes, input.Sizes)
	case multipleChanged:
		// existing sizes must still satisfy the new mode
		current, err := s.menuRepo.FindSizesByItems([]uuid.UUID{item.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to load sizes: %w", err)
		}
		sizes = validateSizes(v, item.HasMultipleSizes, sizeInputs(current))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != item.CategoryID {
		if _, err := s.findCategory(businessID, *input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *input.CategoryID
	}
	if input.Description != nil {
		item.Description = normalizeOptional(input.Description)
	}
	if input.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*input.ImageURL)
		if item.ImageURL == "" {
			item.ImageURL = model.PlaceholderImageURL
		}
	}
	if input.IsVegetarian.Set {
		item.IsVegetarian = input.IsVegetarian.Value
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.DisplayOrder != nil {
		item.DisplayOrder = *input.DisplayOrder
	}

	if err := s.menuRepo.UpdateItem(item, sizes); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	stored, err := s.menuRepo.FindSizesByItems([]uuid.UUID{item.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load sizes: %w", err)
	}

	logger.Info("Menu item updated", map[string]interface{}{
		"business_id":    businessID,
		"item_id":        itemID,
		"sizes_replaced": sizes != nil,
	})
	s.publish(businessID)
	return newItemView(*item, stored), nil
}

func (s *menuService) DeleteItem(businessID, itemID uuid.UUID) error {
	if _, err := s.findItem(businessID, itemID); err != nil {
		return err
	}

	if err := s.menuRepo.DeleteItem(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	logger.Info("Menu item deleted", map[string]interface{}{
		"business_id": businessID,
		"item_id":     itemID,
	})
	s.publish(businessID)
	return nil
}

// ToggleItemAvailability sets availability, or flips it when available is nil.
func (s *menuService) ToggleItemAvailability(businessID, itemID uuid.UUID, available *bool) (*model.MenuItem, error) {
	item, err := s.findItem(businessID, itemID)
	if err != nil {
		return nil, err
	}

	next := !item.IsAvailable
	if available != nil {
		next = *available
	}
	if err := s.menuRepo.SetItemAvailability(item.ID, next); err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	item.IsAvailable = next

	logger.Info("Menu item availability changed", map[string]interface{}{
		"business_id":  businessID,
		"item_id":      itemID,
		"is_available": next,
	})
	s.publish(businessID)
	return item, nil
}

func (s *menuService) ReorderItems(businessID, categoryID uuid.UUID, updates []repository.DisplayOrderUpdate) error {
	if len(updates) == 0 {
		return fieldError("items", "at least one item is required")
	}
	if _, err := s.findCategory(businessID, categoryID); err != nil {
		return err
	}

	items, err := s.menuRepo.FindItemsByCategories([]uuid.UUID{categoryID}, false)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		owned[it.ID] = struct{}{}
	}
	for _, u := range updates {
		if _, ok := owned[u.ID]; !ok {
			return ErrItemNotFound
		}
	}

	if _, err := s.menuRepo.UpdateItemOrder(categoryID, updates); err != nil {
		return fmt.Errorf("failed to reorder items: %w", err)
	}

	logger.Info("Menu items reordered", map[string]interface{}{
		"business_id": businessID,
		"category_id": categoryID,
		"count":       len(updates),
	})
	s.publish(businessID)
	return nil
}

// ==================== reads ====================

// GetCompleteMenu fetches categories, items and sizes separately and joins
// them in memory, keeping display_order at every level.
func (s *menuService) GetCompleteMenu(businessID uuid.UUID, opts MenuReadOptions) (*CompleteMenu, error) {
	logger.Debug("Fetching complete menu", map[string]interface{}{
		"business_id":      businessID,
		"include_inactive": opts.IncludeInactive,
		"available_only":   opts.AvailableOnly,
	})
	return loadMenu(s.menuRepo, businessID, opts)
}

func loadMenu(menuRepo repository.MenuRepository, businessID uuid.UUID, opts MenuReadOptions) (*CompleteMenu, error) {
	categories, err := menuRepo.FindCategoriesByBusiness(businessID, !opts.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	categoryIDs := make([]uuid.UUID, len(categories))
	for i, c := range categories {
		categoryIDs[i] = c.ID
	}
	items, err := menuRepo.FindItemsByCategories(categoryIDs, opts.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	itemIDs := make([]uuid.UUID, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID
	}
	sizes, err := menuRepo.FindSizesByItems(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sizes: %w", err)
	}

	return assembleMenu(categories, items, sizes), nil
}

// assembleMenu nests sizes into items and items into categories. Rows whose
// parent is missing from the input are dropped.
func assembleMenu(categories []model.MenuCategory, items []model.MenuItem, sizes []model.MenuItemSize) *CompleteMenu {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].DisplayOrder < categories[j].DisplayOrder
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].DisplayOrder < sizes[j].DisplayOrder
	})

	sizesByItem := make(map[uuid.UUID][]model.MenuItemSize)
	for _, sz := range sizes {
		sizesByItem[sz.ItemID] = append(sizesByItem[sz.ItemID], sz)
	}

	itemsByCategory := make(map[uuid.UUID][]MenuItemView)
	for _, it := range items {
		itemsByCategory[it.CategoryID] = append(itemsByCategory[it.CategoryID], *newItemView(it, sizesByItem[it.ID]))
	}

	menu := &CompleteMenu{Categories: make([]MenuCategoryView, 0, len(categories))}
	for _, c := range categories {
		views := itemsByCategory[c.ID]
		if views == nil {
			views = []MenuItemView{}
		}
		menu.Categories = append(menu.Categories, MenuCategoryView{MenuCategory: c, Items: views})
	}
	return menu
}

func newItemView(item model.MenuItem, sizes []model.MenuItemSize) *MenuItemView {
	if sizes == nil {
		sizes = []model.MenuItemSize{}
	}
	return &MenuItemView{
		MenuItem:     item,
		Sizes:        sizes,
		PriceDisplay: FormatPriceRange(sizes),
	}
}

// ==================== export / import ====================

func (s *menuService) ExportMenuXLSX(businessID uuid.UUID) ([]byte, error) {
	menu, err := loadMenu(s.menuRepo, businessID, MenuReadOptions{IncludeInactive: true})
	if err != nil {
		return nil, err
	}

	sheet := make([]menusheet.Category, 0, len(menu.Categories))
	for _, c := range menu.Categories {
		sc := menusheet.Category{Name: c.Name, Description: deref(c.Description)}
		for _, it := range c.Items {
			si := menusheet.Item{
				Name:        it.Name,
				Description: deref(it.Description),
				Vegetarian:  it.IsVegetarian,
				Available:   it.IsAvailable,
				ImageURL:    it.ImageURL,
			}
			for _, sz := range it.Sizes {
				si.Sizes = append(si.Sizes, menusheet.Size{Name: sz.SizeName, Price: sz.Price})
			}
			sc.Items = append(sc.Items, si)
		}
		sheet = append(sheet, sc)
	}

	var buf bytes.Buffer
	if err := menusheet.Write(&buf, sheet); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Menu exported", map[string]interface{}{
		"business_id": businessID,
		"categories":  len(sheet),
	})
	return buf.Bytes(), nil
}

// ImportMenu appends the workbook's categories after the existing ones in a
// single transaction and returns the number of categories and items created.
func (s *menuService) ImportMenu(businessID uuid.UUID, categories []menusheet.Category) (int, int, error) {
	v := newValidationError()
	type plannedItem struct {
		item  model.MenuItem
		sizes []model.MenuItemSize
	}
	type plannedCategory struct {
		category model.MenuCategory
		items    []plannedItem
	}

	planned := make([]plannedCategory, 0, len(categories))
	for ci, c := range categories {
		field := fmt.Sprintf("categories[%d]", ci)
		pc := plannedCategory{category: model.MenuCategory{
			BusinessID:  businessID,
			Name:        validateName(v, field+".name", c.Name),
			Description: optionalString(c.Description),
			IsActive:    true,
		}}
		for ii, it := range c.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, ii)
			inputs := make([]SizeInput, len(it.Sizes))
			for k, sz := range it.Sizes {
				inputs[k] = SizeInput{SizeName: sz.Name, Price: sz.Price}
			}
			multiple := len(it.Sizes) > 1 || (len(it.Sizes) == 1 && !isRegular(it.Sizes[0].Name))

			sub := newValidationError()
			sizes := validateSizes(sub, multiple, inputs)
			for k, msg := range sub.Fields {
				v.Add(itemField+"."+k, msg)
			}

			pc.items = append(pc.items, plannedItem{
				item: model.MenuItem{
					Name:             validateName(v, itemField+".name", it.Name),
					Description:      optionalString(it.Description),
					ImageURL:         it.ImageURL,
					IsAvailable:      it.Available,
					IsVegetarian:     it.Vegetarian,
					DisplayOrder:     ii,
					HasMultipleSizes: multiple,
					IsCustom:         true,
				},
				sizes: sizes,
			})
		}
		planned = append(planned, pc)
	}
	if len(planned) == 0 {
		v.Add("categories", "at least one category is required")
	}
	if err := v.OrNil(); err != nil {
		return 0, 0, err
	}

	itemCount := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.menuRepo.WithTx(tx)
		maxOrder, err := repo.MaxCategoryOrder(businessID)
		if err != nil {
			return err
		}
		for i := range planned {
			pc := &planned[i]
			pc.category.DisplayOrder = maxOrder + 1 + i
			if err := repo.CreateCategory(&pc.category); err != nil {
				return err
			}
			for j := range pc.items {
				pi := &pc.items[j]
				pi.item.CategoryID = pc.category.ID
				if err := repo.CreateItem(&pi.item, pi.sizes); err != nil {
					return err
				}
				itemCount++
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to import menu", err, map[string]interface{}{
			"business_id": businessID,
		})
		return 0, 0, fmt.Errorf("failed to import menu: %w", err)
	}

	logger.Info("Menu imported", map[string]interface{}{
		"business_id": businessID,
		"categories":  len(planned),
		"items":       itemCount,
	})
	s.publish(businessID)
	return len(planned), itemCount, nil
}

// ==================== validation & formatting ====================

func validateName(v *ValidationError, field, raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		v.Add(field, "name is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		v.Add(field, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return name
}

// validateSizes checks sizes against the item's mode and returns the rows to
// store. Items without multiple sizes get exactly one "Regular" size.
func validateSizes(v *ValidationError, hasMultipleSizes bool, inputs []SizeInput) []model.MenuItemSize {
	if len(inputs) == 0 {
		v.Add("sizes", "at least one size is required")
		return nil
	}

	if !hasMultipleSizes {
		if len(inputs) != 1 {
			v.Add("sizes", "items without multiple sizes take exactly one price")
			return nil
		}
		price := inputs[0].Price
		if price.IsNegative() {
			v.Add("sizes[0].price", "price must not be negative")
		} else if price.GreaterThan(maxPrice) {
			v.Add("sizes[0].price", "price is too large")
		}
		return []model.MenuItemSize{{
			SizeName: model.RegularSizeName,
			Price:    price.Round(2),
		}}
	}

	sizes := make([]model.MenuItemSize, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("sizes[%d]", i)
		name := strings.TrimSpace(in.SizeName)
		switch {
		case name == "":
			v.Add(field+".size_name", "size name is required")
		case utf8.RuneCountInString(name) > maxSizeNameLength:
			v.Add(field+".size_name", fmt.Sprintf("size name must be at most %d characters", maxSizeNameLength))
		default:
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				v.Add(field+".size_name", "duplicate size name")
			}
			seen[key] = struct{}{}
		}
		if !in.Price.IsPositive() {
			v.Add(field+".price", "price must be greater than zero")
		} else if in.Price.GreaterThan(maxPrice) {
			v.Add(field+".price", "price is too large")
		}
		sizes = append(sizes, model.MenuItemSize{
			SizeName:     name,
			Price:        in.Price.Round(2),
			DisplayOrder: i,
		})
	}
	return sizes
}

func sizeInputs(sizes []model.MenuItemSize) []SizeInput {
	inputs := make([]SizeInput, len(sizes))
	for i, sz := range sizes {
		inputs[i] = SizeInput{SizeName: sz.SizeName, Price: sz.Price}
	}
	return inputs
}

func isRegular(name string) bool {
	n := strings.TrimSpace(name)
	return n == "" || strings.EqualFold(n, model.RegularSizeName)
}

// PriceRange returns the lowest and highest size price. ok is false when
// there are no sizes.
func PriceRange(sizes []model.MenuItemSize) (low, high decimal.Decimal, ok bool) {
	if len(sizes) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	low, high = sizes[0].Price, sizes[0].Price
	for _, sz := range sizes[1:] {
		if sz.Price.LessThan(low) {
			low = sz.Price
		}
		if sz.Price.GreaterThan(high) {
			high = sz.Price
		}
	}
	return low, high, true
}

// FormatPriceRange renders "230" for a single price and "230–450" for a range.
func FormatPriceRange(sizes []model.MenuItemSize) string {
	low, high, ok := PriceRange(sizes)
	if !ok {
		return ""
	}
	if low.Equal(high) {
		return formatPrice(low)
	}
	return formatPrice(low) + "–" + formatPrice(high)
}

func formatPrice(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return d.StringFixed(2)
}

// normalizeOptional trims s and maps blank to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalString(*s)
}

func optionalString(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package repository

import (
	"testing"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type menuFixture struct {
	db       *gorm.DB
	repo     MenuRepository
	business *model.Business
}

func setupMenuTest(t *testing.T) *menuFixture {
	t.Helper()
	testDB := setupTestDB(t)
	return &menuFixture{
		db:       testDB,
		repo:     NewMenuRepository(testDB),
		business: createTestBusiness(t, testDB, "menu@example.bt", "Menu House"),
	}
}

func (f *menuFixture) category(t *testing.T, name string, order int, active bool) *model.MenuCategory {
	t.Helper()
	c := &model.MenuCategory{BusinessID: f.business.ID, Name: name, DisplayOrder: order, IsActive: active}
	require.NoError(t, f.repo.CreateCategory(c))
	return c
}

func (f *menuFixture) item(t *testing.T, categoryID uuid.UUID, name string, order int, prices ...string) *model.MenuItem {
	t.Helper()
	item := &model.MenuItem{CategoryID: categoryID, Name: name, DisplayOrder: order, IsAvailable: true}
	sizes := make([]model.MenuItemSize, len(prices))
	for i, p := range prices {
		sizes[i] = model.MenuItemSize{SizeName: "Size " + p, Price: decimal.RequireFromString(p), DisplayOrder: i}
	}
	if len(prices) == 1 {
		sizes[0].SizeName = model.RegularSizeName
	}
	item.HasMultipleSizes = len(prices) > 1
	require.NoError(t, f.repo.CreateItem(item, sizes))
	return item
}

func TestMenuRepository_Categories(t *testing.T) {
	f := setupMenuTest(t)

	soups := f.category(t, "Soups", 1, true)
	f.category(t, "Drinks", 0, true)
	f.category(t, "Hidden", 2, false)

	all, err := f.repo.FindCategoriesByBusiness(f.business.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Drinks", "Soups", "Hidden"}, []string{all[0].Name, all[1].Name, all[2].Name})

	active, err := f.repo.FindCategoriesByBusiness(f.business.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	maxOrder, err := f.repo.MaxCategoryOrder(f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxOrder)

	empty, err := f.repo.MaxCategoryOrder(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, -1, empty)

	_, err = f.repo.FindCategoryByID(uuid.New(), soups.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	soups.Name = "Hot Soups"
	require.NoError(t, f.repo.UpdateCategory(soups))
	found, err := f.repo.FindCategoryByID(f.business.ID, soups.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hot Soups", found.Name)
}

func TestMenuRepository_UpdateCategoryOrder(t *testing.T) {
	f := setupMenuTest(t)
	a := f.category(t, "A", 0, true)
	b := f.category(t, "B", 1, true)

	affected, err := f.repo.UpdateCategoryOrder(f.business.ID, []DisplayOrderUpdate{
		{ID: a.ID, DisplayOrder: 5},
		{ID: b.ID, DisplayOrder: 3},
		{ID: uuid.New(), DisplayOrder: 1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	categories, err := f.repo.FindCategoriesByBusiness(f.business.ID, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, categories[0].ID)
	assert.Equal(t, a.ID, categories[1].ID)
}

func TestMenuRepository_Items(t *testing.T) {
	f := setupMenuTest(t)
	soups := f.category(t, "Soups", 0, true)

	jaju := f.item(t, soups.ID, "Jaju", 1, "120")
	thukpa := f.item(t, soups.ID, "Thukpa", 0, "150", "220")

	found, err := f.repo.FindItemByID(f.business.ID, jaju.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlaceholderImageURL, found.ImageURL)
	assert.Nil(t, found.IsVegetarian)

	_, err = f.repo.FindItemByID(uuid.New(), jaju.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := f.repo.FindItemsByCategories([]uuid.UUID{soups.ID}, false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, thukpa.ID, items[0].ID)

	require.NoError(t, f.repo.SetItemAvailability(jaju.ID, false))
	available, err := f.repo.FindItemsByCategories([]uuid.UUID{soups.ID}, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, thukpa.ID, available[0].ID)

	none, err := f.repo.FindItemsByCategories(nil, false)
	require.NoError(t, err)
	assert.Empty(t, none)

	sizes, err := f.repo.FindSizesByItems([]uuid.UUID{thukpa.ID})
	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.True(t, sizes[0].Price.Equal(decimal.NewFromInt(150)))

	maxOrder, err := f.repo.MaxItemOrder(soups.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, maxOrder)
}

func TestMenuRepository_UpdateItemReplacesSizes(t *testing.T) {
	f := setupMenuTest(t)
	soups := f.category(t, "Soups", 0, true)
	item := f.item(t, soups.ID, "Thukpa", 0, "150", "220")

	item.Name = "Beef Thukpa"
	require.NoError(t, f.repo.UpdateItem(item, nil))
	sizes, err := f.repo.FindSizesByItems([]uuid.UUID{item.ID})
	require.NoError(t, err)
	assert.Len(t, sizes, 2)

	item.HasMultipleSizes = false
	require.NoError(t, f.repo.UpdateItem(item, []model.MenuItemSize{
		{SizeName: model.RegularSizeName, Price: decimal.NewFromInt(180)},
	}))
	sizes, err = f.repo.FindSizesByItems([]uuid.UUID{item.ID})
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	assert.Equal(t, model.RegularSizeName, sizes[0].SizeName)

	found, err := f.repo.FindItemByID(f.business.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beef Thukpa", found.Name)
	assert.False(t, found.HasMultipleSizes)
}

func TestMenuRepository_Deletes(t *testing.T) {
	f := setupMenuTest(t)
	soups := f.category(t, "Soups", 0, true)
	drinks := f.category(t, "Drinks", 1, true)
	jaju := f.item(t, soups.ID, "Jaju", 0, "120")
	f.item(t, soups.ID, "Thukpa", 1, "150", "220")
	tea := f.item(t, drinks.ID, "Suja", 0, "40")

	categories, items, err := f.repo.CountByBusiness(f.business.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, categories)
	assert.EqualValues(t, 3, items)

	require.NoError(t, f.repo.DeleteItem(jaju.ID))
	assert.ErrorIs(t, f.repo.DeleteItem(jaju.ID), gorm.ErrRecordNotFound)

	require.NoError(t, f.repo.DeleteCategory(soups.ID))
	assert.ErrorIs(t, f.repo.DeleteCategory(soups.ID), gorm.ErrRecordNotFound)

	categories, items, err = f.repo.CountByBusiness(f.business.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, categories)
	assert.EqualValues(t, 1, items)

	var orphanSizes int64
	require.NoError(t, f.db.Model(&model.MenuItemSize{}).Where("item_id <> ?", tea.ID).Count(&orphanSizes).Error)
	assert.Zero(t, orphanSizes)
}

func TestMenuRepository_UpdateItemOrder(t *testing.T) {
	f := setupMenuTest(t)
	soups := f.category(t, "Soups", 0, true)
	drinks := f.category(t, "Drinks", 1, true)
	a := f.item(t, soups.ID, "A", 0, "10")
	b := f.item(t, soups.ID, "B", 1, "10")
	foreign := f.item(t, drinks.ID, "C", 0, "10")

	affected, err := f.repo.UpdateItemOrder(soups.ID, []DisplayOrderUpdate{
		{ID: a.ID, DisplayOrder: 2},
		{ID: b.ID, DisplayOrder: 0},
		{ID: foreign.ID, DisplayOrder: 9},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	items, err := f.repo.FindItemsByCategories([]uuid.UUID{soups.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, items[0].ID)

	untouched, err := f.repo.FindItemByID(f.business.ID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, untouched.DisplayOrder)
}

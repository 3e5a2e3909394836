package service

import (
	"testing"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publicFixture struct {
	db      *gorm.DB
	public  PublicMenuService
	menu    MenuService
	tables  TableService
	open    *model.Business
	openTbl *model.Table
}

func setupPublicMenuTest(t *testing.T) *publicFixture {
	testDB := setupServiceDB(t)
	menuRepo := repository.NewMenuRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	tableRepo := repository.NewTableRepository(testDB)

	f := &publicFixture{
		db:     testDB,
		public: NewPublicMenuService(businessRepo, tableRepo, menuRepo),
		menu:   NewMenuService(testDB, menuRepo, nil),
		tables: NewTableService(tableRepo, businessRepo, nil, testBaseURL),
		open:   createBusiness(t, testDB, "Bukhari", model.BusinessApproved),
	}
	table, err := f.tables.CreateTable(f.open.ID, CreateTableInput{TableNumber: "4"})
	require.NoError(t, err)
	f.openTbl = table
	return f
}

func TestPublicMenuService_ResolvesApprovedBusiness(t *testing.T) {
	f := setupPublicMenuTest(t)

	drinks, err := f.menu.CreateCategory(f.open.ID, CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	hidden, err := f.menu.CreateCategory(f.open.ID, CreateCategoryInput{Name: "Staff Only", DisplayOrder: intPtr(1)})
	require.NoError(t, err)
	_, err = f.menu.UpdateCategory(f.open.ID, hidden.ID, UpdateCategoryInput{IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = f.menu.CreateItem(f.open.ID, CreateItemInput{CategoryID: drinks.ID, Name: "Suja", Sizes: regular("60")})
	require.NoError(t, err)
	soldOut, err := f.menu.CreateItem(f.open.ID, CreateItemInput{CategoryID: drinks.ID, Name: "Ara", Sizes: regular("120")})
	require.NoError(t, err)
	_, err = f.menu.ToggleItemAvailability(f.open.ID, soldOut.ID, boolPtr(false))
	require.NoError(t, err)

	result, err := f.public.ResolvePublicMenu(f.open.ID.String(), f.openTbl.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Bukhari", result.Restaurant.BusinessName)
	assert.Equal(t, "Thimphu", result.Restaurant.Location)
	assert.Equal(t, "4", result.Table.TableNumber)

	require.Len(t, result.Menu.Categories, 1, "inactive categories are hidden")
	items := result.Menu.Categories[0].Items
	require.Len(t, items, 1, "unavailable items are hidden")
	assert.Equal(t, "Suja", items[0].Name)
	assert.Equal(t, "60", items[0].PriceDisplay)
}

func TestPublicMenuService_ScenarioE_OpaqueNotFound(t *testing.T) {
	f := setupPublicMenuTest(t)

	other := createBusiness(t, f.db, "Neighbour", model.BusinessApproved)
	foreign, err := f.tables.CreateTable(other.ID, CreateTableInput{TableNumber: "1"})
	require.NoError(t, err)
	inactive, err := f.tables.CreateTable(f.open.ID, CreateTableInput{TableNumber: "9", IsActive: boolPtr(false)})
	require.NoError(t, err)

	pending := createBusiness(t, f.db, "Pending Place", model.BusinessPending)
	pendingTbl, err := f.tables.CreateTable(pending.ID, CreateTableInput{TableNumber: "1"})
	require.NoError(t, err)
	suspended := createBusiness(t, f.db, "Suspended Place", model.BusinessSuspended)
	suspendedTbl, err := f.tables.CreateTable(suspended.ID, CreateTableInput{TableNumber: "1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		businessID string
		tableID    string
	}{
		{name: "malformed business id", businessID: "not-a-uuid", tableID: f.openTbl.ID.String()},
		{name: "malformed table id", businessID: f.open.ID.String(), tableID: "42"},
		{name: "unknown business", businessID: uuid.NewString(), tableID: f.openTbl.ID.String()},
		{name: "unknown table", businessID: f.open.ID.String(), tableID: uuid.NewString()},
		{name: "table of another business", businessID: f.open.ID.String(), tableID: foreign.ID.String()},
		{name: "inactive table", businessID: f.open.ID.String(), tableID: inactive.ID.String()},
		{name: "pending business", businessID: pending.ID.String(), tableID: pendingTbl.ID.String()},
		{name: "suspended business", businessID: suspended.ID.String(), tableID: suspendedTbl.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.public.ResolvePublicMenu(tt.businessID, tt.tableID)
			assert.ErrorIs(t, err, ErrMenuNotFound)
			assert.Equal(t, ErrMenuNotFound.Error(), err.Error(), "no detail about which check failed")

			_, _, err = f.public.ResolveTarget(tt.businessID, tt.tableID)
			assert.ErrorIs(t, err, ErrMenuNotFound)
		})
	}
}

func TestPublicMenuService_ResolveTarget(t *testing.T) {
	f := setupPublicMenuTest(t)

	businessID, tableID, err := f.public.ResolveTarget(f.open.ID.String(), f.openTbl.ID.String())
	require.NoError(t, err)
	assert.Equal(t, f.open.ID, businessID)
	assert.Equal(t, f.openTbl.ID, tableID)
}

func TestPublicMenuService_EmptyMenu(t *testing.T) {
	f := setupPublicMenuTest(t)

	result, err := f.public.ResolvePublicMenu(f.open.ID.String(), f.openTbl.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, result.Menu.Categories)
	assert.Empty(t, result.Menu.Categories)
}

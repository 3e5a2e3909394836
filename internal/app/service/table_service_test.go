package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBaseURL = "https://menu.example.bt/"

type fakeObjectStorage struct {
	uploads []string
	err     error
}

func (s *fakeObjectStorage) Upload(ctx context.Context, folder, ext, contentType string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	url := "https://cdn.example.bt/" + folder + "/" + uuid.NewString() + ext
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *fakeObjectStorage) GeneratePresignedURL(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	return nil, errors.New("not used")
}

type tableFixture struct {
	db       *gorm.DB
	service  TableService
	storage  *fakeObjectStorage
	business *model.Business
}

func setupTableServiceTest(t *testing.T) *tableFixture {
	testDB := setupServiceDB(t)
	objects := &fakeObjectStorage{}
	return &tableFixture{
		db: testDB,
		service: NewTableService(
			repository.NewTableRepository(testDB),
			repository.NewBusinessRepository(testDB),
			objects,
			testBaseURL,
		),
		storage:  objects,
		business: createBusiness(t, testDB, "Folk Heritage", model.BusinessApproved),
	}
}

func TestBuildMenuURL(t *testing.T) {
	b := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tb := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	want := "https://menu.example.bt/menu/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222"

	assert.Equal(t, want, BuildMenuURL("https://menu.example.bt", b, tb))
	assert.Equal(t, want, BuildMenuURL("https://menu.example.bt/", b, tb))
}

func TestTableService_ScenarioD_DuplicateNumber(t *testing.T) {
	f := setupTableServiceTest(t)

	t5, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "T5"})
	require.NoError(t, err)
	assert.True(t, t5.IsActive)

	_, err = f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: " T5 "})
	assert.ErrorIs(t, err, ErrTableNumberExists)

	// the same number at another business is fine
	other := createBusiness(t, f.db, "Other", model.BusinessApproved)
	_, err = f.service.CreateTable(other.ID, CreateTableInput{TableNumber: "T5"})
	require.NoError(t, err)

	tables, err := f.service.ListTables(f.business.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestTableService_CreateValidation(t *testing.T) {
	f := setupTableServiceTest(t)

	_, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: strings.Repeat("9", maxTableNumberLength+1)})
	assert.ErrorIs(t, err, ErrValidation)

	inactive, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "Patio", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
}

func TestTableService_Update(t *testing.T) {
	f := setupTableServiceTest(t)
	t1, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "1"})
	require.NoError(t, err)
	_, err = f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "2"})
	require.NoError(t, err)

	_, err = f.service.UpdateTable(f.business.ID, t1.ID, UpdateTableInput{TableNumber: strPtr("2")})
	assert.ErrorIs(t, err, ErrTableNumberExists)

	same, err := f.service.UpdateTable(f.business.ID, t1.ID, UpdateTableInput{TableNumber: strPtr("1"), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, same.IsActive)

	renamed, err := f.service.UpdateTable(f.business.ID, t1.ID, UpdateTableInput{TableNumber: strPtr("1A")})
	require.NoError(t, err)
	assert.Equal(t, "1A", renamed.TableNumber)
}

func TestTableService_TenantIsolation(t *testing.T) {
	f := setupTableServiceTest(t)
	other := createBusiness(t, f.db, "Other", model.BusinessApproved)

	table, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "7"})
	require.NoError(t, err)

	_, err = f.service.GetTable(other.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	_, err = f.service.UpdateTable(other.ID, table.ID, UpdateTableInput{IsActive: boolPtr(false)})
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, f.service.DeleteTable(other.ID, table.ID), ErrTableNotFound)
	_, err = f.service.GenerateQRCode(other.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)

	require.NoError(t, f.service.DeleteTable(f.business.ID, table.ID))
	assert.ErrorIs(t, f.service.DeleteTable(f.business.ID, table.ID), ErrTableNotFound)
}

func TestTableService_GenerateQRCode(t *testing.T) {
	f := setupTableServiceTest(t)
	table, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "12"})
	require.NoError(t, err)

	qr, err := f.service.GenerateQRCode(f.business.ID, table.ID)
	require.NoError(t, err)
	assert.Equal(t, BuildMenuURL(testBaseURL, f.business.ID, table.ID), qr.MenuURL)
	assert.True(t, strings.HasPrefix(qr.QRCodeDataURL, "data:image/png;base64,"))

	stored, err := f.service.GetTable(f.business.ID, table.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.QRCodeURL)
	assert.Equal(t, qr.MenuURL, *stored.QRCodeURL)
}

func TestTableService_GenerateQRCodeWithTemplate(t *testing.T) {
	f := setupTableServiceTest(t)
	table, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: "3"})
	require.NoError(t, err)

	card, err := f.service.GenerateQRCodeWithTemplate(context.Background(), f.business.ID, table.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Folk Heritage", card.RestaurantName)
	assert.Empty(t, card.FileURL)
	assert.Empty(t, f.storage.uploads)

	uploaded, err := f.service.GenerateQRCodeWithTemplate(context.Background(), f.business.ID, table.ID, true)
	require.NoError(t, err)
	require.Len(t, f.storage.uploads, 1)
	assert.Equal(t, f.storage.uploads[0], uploaded.FileURL)
	assert.Contains(t, uploaded.FileURL, storage.FolderQRCards)

	f.storage.err = errors.New("bucket unavailable")
	degraded, err := f.service.GenerateQRCodeWithTemplate(context.Background(), f.business.ID, table.ID, true)
	require.NoError(t, err, "a failed upload still returns the card")
	assert.Empty(t, degraded.FileURL)
	assert.NotEmpty(t, degraded.QRCodeDataURL)
}

func TestTableService_BackfillQRCodeURLs(t *testing.T) {
	f := setupTableServiceTest(t)
	var ids []uuid.UUID
	for _, n := range []string{"1", "2", "3"} {
		table, err := f.service.CreateTable(f.business.ID, CreateTableInput{TableNumber: n})
		require.NoError(t, err)
		ids = append(ids, table.ID)
	}
	_, err := f.service.GenerateQRCode(f.business.ID, ids[0])
	require.NoError(t, err)

	updated, err := f.service.BackfillQRCodeURLs(10)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for _, id := range ids {
		table, err := f.service.GetTable(f.business.ID, id)
		require.NoError(t, err)
		require.NotNil(t, table.QRCodeURL)
		assert.Equal(t, BuildMenuURL(testBaseURL, f.business.ID, id), *table.QRCodeURL)
	}

	again, err := f.service.BackfillQRCodeURLs(10)
	require.NoError(t, err)
	assert.Zero(t, again)
}

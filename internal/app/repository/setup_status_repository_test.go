package repository

import (
	"testing"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSetupStatusRepository_Upsert(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewSetupStatusRepository(testDB)
	business := createTestBusiness(t, testDB, "status@example.bt", "Status House")

	_, err := repo.FindByBusiness(business.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	completedAt := time.Now().UTC()
	require.NoError(t, repo.Upsert(&model.MenuSetupStatus{
		BusinessID:       business.ID,
		IsSetupComplete:  true,
		SetupCompletedAt: &completedAt,
		TotalCategories:  2,
		TotalItems:       5,
	}))

	// a second write for the same business updates the row in place
	later := completedAt.Add(time.Hour)
	require.NoError(t, repo.Upsert(&model.MenuSetupStatus{
		BusinessID:       business.ID,
		IsSetupComplete:  true,
		SetupCompletedAt: &later,
		TotalCategories:  3,
		TotalItems:       9,
	}))

	status, err := repo.FindByBusiness(business.ID)
	require.NoError(t, err)
	assert.True(t, status.IsSetupComplete)
	assert.Equal(t, 3, status.TotalCategories)
	assert.Equal(t, 9, status.TotalItems)
	require.NotNil(t, status.SetupCompletedAt)
	assert.True(t, completedAt.Equal(*status.SetupCompletedAt), "first completion time is kept")

	var rows int64
	require.NoError(t, testDB.Model(&model.MenuSetupStatus{}).Where("business_id = ?", business.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	_, err = repo.FindByBusiness(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

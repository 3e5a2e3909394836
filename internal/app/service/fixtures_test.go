package service

import (
	"sync"
	"testing"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

// createBusiness inserts an owner and a business in the given status.
func createBusiness(t *testing.T, conn *gorm.DB, name string, status model.BusinessStatus) *model.Business {
	t.Helper()
	owner := &model.User{
		Email:        uuid.NewString() + "@example.bt",
		PasswordHash: "x",
		Name:         name + " Owner",
		Role:         model.RoleOwner,
	}
	require.NoError(t, conn.Create(owner).Error)

	business := &model.Business{
		OwnerID:      owner.ID,
		BusinessName: name,
		BusinessType: "restaurant",
		Location:     "Thimphu",
		Status:       status,
	}
	require.NoError(t, conn.Create(business).Error)
	business.Owner = owner
	return business
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

type recordingPublisher struct {
	mu     sync.Mutex
	events []uuid.UUID
}

func (p *recordingPublisher) PublishMenuUpdated(businessID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, businessID)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

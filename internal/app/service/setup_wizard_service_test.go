package service

import (
	"context"
	"testing"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wizardFixture struct {
	wizard   SetupWizardService
	store    *wizard.MemoryStore
	business *model.Business
}

func setupWizardServiceTest(t *testing.T) *wizardFixture {
	testDB := setupServiceDB(t)
	setup := NewSetupService(
		testDB,
		repository.NewMenuRepository(testDB),
		repository.NewSetupStatusRepository(testDB),
		nil,
	)
	store := wizard.NewMemoryStore(time.Hour)
	return &wizardFixture{
		wizard:   NewSetupWizardService(setup, store),
		store:    store,
		business: createBusiness(t, testDB, "Wizard Cafe", model.BusinessApproved),
	}
}

func (f *wizardFixture) apply(t *testing.T, a wizard.Action) *WizardState {
	t.Helper()
	state, err := f.wizard.Apply(context.Background(), f.business.ID, a)
	require.NoError(t, err)
	return state
}

func TestSetupWizardService_FullFlow(t *testing.T) {
	f := setupWizardServiceTest(t)
	ctx := context.Background()

	state, err := f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepTemplate, state.Step)
	assert.False(t, state.SetupStatus.IsSetupComplete)
	assert.False(t, state.Draft.Reentry)

	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "beverages"})
	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "momos"})
	state = f.apply(t, wizard.Action{Type: wizard.ActionNext})
	assert.Equal(t, wizard.StepItems, state.Step)

	f.apply(t, wizard.Action{Type: wizard.ActionToggleItem, TemplateID: "momos", ItemKey: "momos-veg"})
	f.apply(t, wizard.Action{Type: wizard.ActionToggleItem, TemplateID: "momos", ItemKey: "momos-fried"})
	f.apply(t, wizard.Action{
		Type:       wizard.ActionAddCustomItem,
		TemplateID: "beverages",
		Item:       &wizard.CustomItemInput{Name: "Seabuckthorn Juice", Price: price("110"), IsVegetarian: boolPtr(true)},
	})
	state = f.apply(t, wizard.Action{Type: wizard.ActionNext})
	assert.Equal(t, wizard.StepReview, state.Step)

	result, err := f.wizard.Finish(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, SetupCounts{Categories: 2, Items: 3}, result.Counts)

	// categories follow library order, not pick order
	require.Len(t, result.Menu.Categories, 2)
	momos := result.Menu.Categories[0]
	assert.Equal(t, "Momos", momos.Name)
	require.Len(t, momos.Items, 2)
	assert.Equal(t, "Veg Momo", momos.Items[0].Name)
	require.NotNil(t, momos.Items[0].TemplateItemID)
	assert.Equal(t, "momos-veg", *momos.Items[0].TemplateItemID)
	assert.Nil(t, momos.Items[1].IsVegetarian, "template items without a flag stay unknown")

	drinks := result.Menu.Categories[1]
	require.Len(t, drinks.Items, 1)
	assert.True(t, drinks.Items[0].IsCustom)
	assert.Equal(t, "110", drinks.Items[0].PriceDisplay)

	_, err = f.store.Load(ctx, f.business.ID)
	assert.ErrorIs(t, err, wizard.ErrDraftNotFound, "finished drafts are dropped")

	state, err = f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepManage, state.Step)
	assert.Nil(t, state.Draft)
	assert.True(t, state.SetupStatus.IsSetupComplete)
}

func TestSetupWizardService_Reentry(t *testing.T) {
	f := setupWizardServiceTest(t)
	ctx := context.Background()

	_, err := f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "soups"})
	f.apply(t, wizard.Action{Type: wizard.ActionNext})
	f.apply(t, wizard.Action{Type: wizard.ActionToggleItem, TemplateID: "soups", ItemKey: "soups-jaju"})
	f.apply(t, wizard.Action{Type: wizard.ActionNext})
	_, err = f.wizard.Finish(ctx, f.business.ID)
	require.NoError(t, err)

	state, err := f.wizard.Open(ctx, f.business.ID, true)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepTemplate, state.Step)
	require.NotNil(t, state.Draft)
	assert.True(t, state.Draft.Reentry)

	// a re-entry draft in progress is resumed without asking again
	resumed, err := f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepTemplate, resumed.Step)
	require.NotNil(t, resumed.Draft)

	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "desserts"})
	f.apply(t, wizard.Action{Type: wizard.ActionNext})
	f.apply(t, wizard.Action{Type: wizard.ActionToggleItem, TemplateID: "desserts", ItemKey: "desserts-ice-cream"})
	f.apply(t, wizard.Action{Type: wizard.ActionNext})
	result, err := f.wizard.Finish(ctx, f.business.ID)
	require.NoError(t, err)

	require.Len(t, result.Menu.Categories, 2)
	assert.Equal(t, "Soups", result.Menu.Categories[0].Name)
	assert.Equal(t, "Desserts", result.Menu.Categories[1].Name)
	assert.Equal(t, 2, result.Status.TotalCategories)
	assert.Equal(t, 2, result.Status.TotalItems)
}

func TestSetupWizardService_Guards(t *testing.T) {
	f := setupWizardServiceTest(t)
	ctx := context.Background()

	_, err := f.wizard.Apply(ctx, f.business.ID, wizard.Action{Type: wizard.ActionNext})
	assert.ErrorIs(t, err, ErrWizardNotStarted)
	_, err = f.wizard.Finish(ctx, f.business.ID)
	assert.ErrorIs(t, err, ErrWizardNotStarted)

	_, err = f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)

	_, err = f.wizard.Apply(ctx, f.business.ID, wizard.Action{Type: wizard.ActionNext})
	assert.ErrorIs(t, err, wizard.ErrNoCategoriesSelected)

	_, err = f.wizard.Finish(ctx, f.business.ID)
	assert.ErrorIs(t, err, wizard.ErrWrongStep)

	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "starters"})
	f.apply(t, wizard.Action{Type: wizard.ActionNext})
	_, err = f.wizard.Apply(ctx, f.business.ID, wizard.Action{Type: wizard.ActionNext})
	assert.ErrorIs(t, err, wizard.ErrNoItemsSelected)

	// a rejected action leaves the stored draft untouched
	draft, err := f.store.Load(ctx, f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepItems, draft.Step)

	_, err = f.wizard.Apply(ctx, f.business.ID, wizard.Action{Type: "teleport"})
	assert.ErrorIs(t, err, wizard.ErrUnknownAction)
}

func TestSetupWizardService_Discard(t *testing.T) {
	f := setupWizardServiceTest(t)
	ctx := context.Background()

	_, err := f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	f.apply(t, wizard.Action{Type: wizard.ActionToggleTemplate, TemplateID: "breakfast"})

	require.NoError(t, f.wizard.Discard(ctx, f.business.ID))

	state, err := f.wizard.Open(ctx, f.business.ID, false)
	require.NoError(t, err)
	assert.Empty(t, state.Draft.Categories, "a discarded draft starts over")
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
)

var ErrWizardNotStarted = errors.New("menu setup wizard has not been opened")

type WizardState struct {
	Step        wizard.Step        `json:"step"`
	Draft       *wizard.Draft      `json:"draft,omitempty"`
	SetupStatus *SetupStatusResult `json:"setup_status"`
}

type SetupWizardService interface {
	Open(ctx context.Context, businessID uuid.UUID, reenter bool) (*WizardState, error)
	Apply(ctx context.Context, businessID uuid.UUID, action wizard.Action) (*WizardState, error)
	Finish(ctx context.Context, businessID uuid.UUID) (*CompleteSetupResult, error)
	Discard(ctx context.Context, businessID uuid.UUID) error
}

type setupWizardService struct {
	setup SetupService
	store wizard.Store
}

func NewSetupWizardService(setup SetupService, store wizard.Store) SetupWizardService {
	return &setupWizardService{setup: setup, store: store}
}

// Open resumes the business's draft or starts a new one. Once setup is
// complete the owner lands in manage mode unless reenter asks for the wizard
// again to add more categories.
func (s *setupWizardService) Open(ctx context.Context, businessID uuid.UUID, reenter bool) (*WizardState, error) {
	status, err := s.setup.CheckMenuSetupStatus(businessID)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.Load(ctx, businessID)
	if err != nil && !errors.Is(err, wizard.ErrDraftNotFound) {
		return nil, fmt.Errorf("failed to load wizard draft: %w", err)
	}

	if status.IsSetupComplete && !reenter && (draft == nil || !draft.Reentry) {
		return &WizardState{Step: wizard.StepManage, SetupStatus: status}, nil
	}

	if draft == nil {
		draft = wizard.New(businessID, status.IsSetupComplete)
		if err := s.store.Save(ctx, draft); err != nil {
			return nil, fmt.Errorf("failed to save wizard draft: %w", err)
		}
		logger.Info("Menu setup wizard started", map[string]interface{}{
			"business_id": businessID,
			"reentry":     draft.Reentry,
		})
	}

	return &WizardState{Step: draft.Step, Draft: draft, SetupStatus: status}, nil
}

func (s *setupWizardService) load(ctx context.Context, businessID uuid.UUID) (*wizard.Draft, error) {
	draft, err := s.store.Load(ctx, businessID)
	if err != nil {
		if errors.Is(err, wizard.ErrDraftNotFound) {
			return nil, ErrWizardNotStarted
		}
		return nil, fmt.Errorf("failed to load wizard draft: %w", err)
	}
	return draft, nil
}

// Apply runs one action against the stored draft. Nothing reaches the
// catalog until Finish.
func (s *setupWizardService) Apply(ctx context.Context, businessID uuid.UUID, action wizard.Action) (*WizardState, error) {
	draft, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := draft.Apply(action); err != nil {
		logger.Debug("Wizard action rejected", map[string]interface{}{
			"business_id": businessID,
			"action":      action.Type,
			"step":        draft.Step,
			"error":       err.Error(),
		})
		return nil, err
	}

	if err := s.store.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save wizard draft: %w", err)
	}
	return &WizardState{Step: draft.Step, Draft: draft}, nil
}

func draftToSetupInput(draft *wizard.Draft) CompleteSetupInput {
	input := CompleteSetupInput{Categories: make([]SetupCategoryInput, 0, len(draft.Categories))}
	for i := range draft.Categories {
		c := &draft.Categories[i]
		templateID := c.TemplateID
		description := c.Description
		sc := SetupCategoryInput{
			TemplateID:  &templateID,
			Name:        c.Name,
			Description: &description,
		}
		for _, it := range c.SelectedItems() {
			desc := it.Description
			img := it.ImageURL
			sc.Items = append(sc.Items, SetupItemInput{
				Name:           it.Name,
				Description:    &desc,
				Price:          it.Price,
				ImageURL:       &img,
				IsVegetarian:   it.IsVegetarian,
				TemplateItemID: it.TemplateItemID,
				IsCustom:       it.IsCustom,
			})
		}
		input.Categories = append(input.Categories, sc)
	}
	return input
}

// Finish writes the reviewed draft to the catalog and drops it. On failure
// the draft is kept so the owner can retry.
func (s *setupWizardService) Finish(ctx context.Context, businessID uuid.UUID) (*CompleteSetupResult, error) {
	draft, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := draft.ReadyToFinish(); err != nil {
		return nil, err
	}

	result, err := s.setup.CompleteMenuSetup(businessID, draftToSetupInput(draft))
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, businessID); err != nil {
		logger.Warn("Failed to delete finished wizard draft", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
	}
	return result, nil
}

func (s *setupWizardService) Discard(ctx context.Context, businessID uuid.UUID) error {
	if err := s.store.Delete(ctx, businessID); err != nil {
		return fmt.Errorf("failed to discard wizard draft: %w", err)
	}
	logger.Info("Menu setup wizard discarded", map[string]interface{}{
		"business_id": businessID,
	})
	return nil
}

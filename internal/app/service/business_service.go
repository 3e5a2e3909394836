package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/mailer"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusNotifier tells an owner their business status changed.
type StatusNotifier interface {
	SendStatusNotice(n mailer.StatusNotice) error
}

type BusinessProfileUpdate struct {
	BusinessName  *string         `json:"business_name"`
	BusinessType  *string         `json:"business_type"`
	Location      *string         `json:"location"`
	Hours         *datatypes.JSON `json:"hours"`
	LogoURL       *string         `json:"logo_url"`
	CoverPhotoURL *string         `json:"cover_photo_url"`
}

type BusinessListOptions struct {
	Status *model.BusinessStatus
	Search string
	Limit  int
	Offset int
}

type BusinessService interface {
	GetMyBusiness(ownerID uuid.UUID) (*model.Business, error)
	UpdateMyBusiness(ownerID uuid.UUID, input BusinessProfileUpdate) (*model.Business, error)
	FindBusinessIDByOwner(ownerID uuid.UUID) (uuid.UUID, error)

	ListBusinesses(opts BusinessListOptions) ([]model.Business, int64, error)
	GetBusiness(id uuid.UUID) (*model.Business, error)
	ApproveBusiness(id uuid.UUID) (*model.Business, error)
	RejectBusiness(id uuid.UUID, reason string) (*model.Business, error)
	SuspendBusiness(id uuid.UUID, reason string) (*model.Business, error)
	ReactivateBusiness(id uuid.UUID) (*model.Business, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	notifier     StatusNotifier
}

// NewBusinessService builds the profile and approval service. notifier may be nil.
func NewBusinessService(businessRepo repository.BusinessRepository, notifier StatusNotifier) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		notifier:     notifier,
	}
}

func (s *businessService) GetMyBusiness(ownerID uuid.UUID) (*model.Business, error) {
	business, err := s.businessRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to load business: %w", err)
	}
	return business, nil
}

func (s *businessService) FindBusinessIDByOwner(ownerID uuid.UUID) (uuid.UUID, error) {
	business, err := s.GetMyBusiness(ownerID)
	if err != nil {
		return uuid.Nil, err
	}
	return business.ID, nil
}

func (s *businessService) UpdateMyBusiness(ownerID uuid.UUID, input BusinessProfileUpdate) (*model.Business, error) {
	business, err := s.GetMyBusiness(ownerID)
	if err != nil {
		return nil, err
	}

	v := newValidationError()
	if input.BusinessName != nil {
		business.BusinessName = validateName(v, "business_name", *input.BusinessName)
	}
	if input.BusinessType != nil {
		business.BusinessType = strings.TrimSpace(*input.BusinessType)
	}
	if input.Location != nil {
		business.Location = strings.TrimSpace(*input.Location)
	}
	if input.Hours != nil {
		business.Hours = *input.Hours
	}
	if input.LogoURL != nil {
		business.LogoURL = normalizeOptional(input.LogoURL)
	}
	if input.CoverPhotoURL != nil {
		business.CoverPhotoURL = normalizeOptional(input.CoverPhotoURL)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}

	logger.Info("Business profile updated", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    ownerID,
	})
	return business, nil
}

func (s *businessService) ListBusinesses(opts BusinessListOptions) ([]model.Business, int64, error) {
	businesses, total, err := s.businessRepo.FindAll(repository.BusinessFilter{
		Status: opts.Status,
		Search: strings.TrimSpace(opts.Search),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, total, nil
}

func (s *businessService) GetBusiness(id uuid.UUID) (*model.Business, error) {
	business, err := s.businessRepo.FindByIDWithOwner(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to load business: %w", err)
	}
	return business, nil
}

// allowedTransitions lists, per target status, the statuses it can be reached from.
var allowedTransitions = map[model.BusinessStatus][]model.BusinessStatus{
	model.BusinessApproved:  {model.BusinessPending, model.BusinessRejected},
	model.BusinessRejected:  {model.BusinessPending},
	model.BusinessSuspended: {model.BusinessApproved},
}

func canTransition(from, to model.BusinessStatus) bool {
	for _, s := range allowedTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

func (s *businessService) ApproveBusiness(id uuid.UUID) (*model.Business, error) {
	return s.transition(id, model.BusinessApproved, "", "approved")
}

func (s *businessService) RejectBusiness(id uuid.UUID, reason string) (*model.Business, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fieldError("reason", "a rejection reason is required")
	}
	return s.transition(id, model.BusinessRejected, reason, "rejected")
}

func (s *businessService) SuspendBusiness(id uuid.UUID, reason string) (*model.Business, error) {
	return s.transition(id, model.BusinessSuspended, strings.TrimSpace(reason), "suspended")
}

// ReactivateBusiness lifts a suspension.
func (s *businessService) ReactivateBusiness(id uuid.UUID) (*model.Business, error) {
	business, err := s.GetBusiness(id)
	if err != nil {
		return nil, err
	}
	if business.Status != model.BusinessSuspended {
		return nil, ErrInvalidStatusTransition
	}
	return s.apply(business, model.BusinessApproved, "", "reactivated")
}

func (s *businessService) transition(id uuid.UUID, to model.BusinessStatus, reason, notice string) (*model.Business, error) {
	business, err := s.GetBusiness(id)
	if err != nil {
		return nil, err
	}
	if !canTransition(business.Status, to) {
		logger.Warn("Rejected business status transition", map[string]interface{}{
			"business_id": id,
			"from":        business.Status,
			"to":          to,
		})
		return nil, ErrInvalidStatusTransition
	}
	return s.apply(business, to, reason, notice)
}

func (s *businessService) apply(business *model.Business, to model.BusinessStatus, reason, notice string) (*model.Business, error) {
	from := business.Status
	business.Status = to
	switch to {
	case model.BusinessApproved:
		if from != model.BusinessSuspended || business.ApprovedAt == nil {
			now := time.Now()
			business.ApprovedAt = &now
		}
		business.RejectionReason = nil
	default:
		business.RejectionReason = optionalString(reason)
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, fmt.Errorf("failed to update business status: %w", err)
	}

	logger.Info("Business status changed", map[string]interface{}{
		"business_id": business.ID,
		"from":        from,
		"to":          to,
	})

	s.notify(business, notice, reason)
	return business, nil
}

// notify is best-effort; a mail failure never undoes the status change.
func (s *businessService) notify(business *model.Business, status, reason string) {
	if s.notifier == nil || business.Owner == nil {
		return
	}
	err := s.notifier.SendStatusNotice(mailer.StatusNotice{
		To:           business.Owner.Email,
		OwnerName:    business.Owner.Name,
		BusinessName: business.BusinessName,
		Status:       status,
		Reason:       reason,
	})
	if err != nil {
		logger.Warn("Failed to send business status notice", map[string]interface{}{
			"business_id": business.ID,
			"status":      status,
			"error":       err.Error(),
		})
	}
}

package controller

import (
	"errors"
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps service sentinels onto HTTP responses. Anything it
// does not recognise is logged and answered with a 500.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.MenuCategoryNotFound, "Menu category not found")
	case errors.Is(err, service.ErrItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
	case errors.Is(err, service.ErrMenuNotFound):
		apperrors.NotFound(c, apperrors.MenuNotFound, "Menu not found")
	case errors.Is(err, service.ErrTableNotFound):
		apperrors.NotFound(c, apperrors.TableNotFound, "Table not found")
	case errors.Is(err, service.ErrBusinessNotFound):
		apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	case errors.Is(err, service.ErrTableNumberExists):
		apperrors.Conflict(c, apperrors.TableNumberExists, "A table with this number already exists")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		apperrors.Conflict(c, apperrors.BusinessInvalidTransition, "The business cannot move to that status")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
	case errors.Is(err, service.ErrTokenRevoked):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "This token has been revoked")
	case errors.Is(err, service.ErrInvalidToken):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
	case errors.Is(err, service.ErrWizardNotStarted), errors.Is(err, wizard.ErrWrongStep):
		apperrors.Conflict(c, apperrors.MenuWizardStep, err.Error())
	case errors.Is(err, wizard.ErrNoCategoriesSelected):
		apperrors.BadRequest(c, apperrors.ValidationNoCategorySelect, err.Error())
	case errors.Is(err, wizard.ErrNoItemsSelected):
		apperrors.BadRequest(c, apperrors.ValidationNoItemsSelected, err.Error())
	case errors.Is(err, wizard.ErrUnknownAction),
		errors.Is(err, wizard.ErrUnknownTemplate),
		errors.Is(err, wizard.ErrCategoryNotSelected),
		errors.Is(err, wizard.ErrUnknownItem),
		errors.Is(err, wizard.ErrNotCustomItem),
		errors.Is(err, wizard.ErrInvalidItem):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// pathUUID parses a uuid path parameter, answering 400 when it is malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// currentBusinessID returns the tenant resolved by middleware.RequireBusiness.
func currentBusinessID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetBusinessID(c)
	if !ok {
		apperrors.Forbidden(c, "No business is linked to this account")
		return uuid.Nil, false
	}
	return id, true
}

func invalidBody(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request body is invalid")
}

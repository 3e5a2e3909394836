package controller

import (
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{
		businessService: businessService,
	}
}

// GetMyBusiness returns the caller's business profile
// GET /api/v1/business/me
func (ctrl *BusinessController) GetMyBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	business, err := ctrl.businessService.GetMyBusiness(userID)
	if err != nil {
		respondServiceError(c, err, "load business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// UpdateMyBusiness applies a partial profile update. Owners may edit their
// profile whatever the approval status.
// PUT /api/v1/business/me
func (ctrl *BusinessController) UpdateMyBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req service.BusinessProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	business, err := ctrl.businessService.UpdateMyBusiness(userID, req)
	if err != nil {
		respondServiceError(c, err, "update business")
		return
	}

	log.Info("Business profile updated", map[string]interface{}{
		"business_id": business.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business updated successfully",
		"business": business,
	})
}

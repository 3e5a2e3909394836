package controller

import (
	"net/http"
	"strconv"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminController serves the super_admin approval workflow.
type AdminController struct {
	businessService service.BusinessService
}

func NewAdminController(businessService service.BusinessService) *AdminController {
	return &AdminController{
		businessService: businessService,
	}
}

type StatusChangeRequest struct {
	Reason  string `json:"reason"`
	Confirm bool   `json:"confirm"`
}

func validStatus(s model.BusinessStatus) bool {
	switch s {
	case model.BusinessPending, model.BusinessApproved, model.BusinessRejected, model.BusinessSuspended:
		return true
	}
	return false
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// ListBusinesses returns businesses, optionally filtered by status
// GET /api/v1/admin/businesses?status=pending&search=&limit=&offset=
func (ctrl *AdminController) ListBusinesses(c *gin.Context) {
	opts := service.BusinessListOptions{
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", defaultPageSize),
		Offset: queryInt(c, "offset", 0),
	}
	if opts.Limit == 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	if raw := c.Query("status"); raw != "" {
		status := model.BusinessStatus(raw)
		if !validStatus(status) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown business status")
			return
		}
		opts.Status = &status
	}

	businesses, total, err := ctrl.businessService.ListBusinesses(opts)
	if err != nil {
		respondServiceError(c, err, "load businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"total":      total,
		"limit":      opts.Limit,
		"offset":     opts.Offset,
	})
}

// GetBusiness returns one business with its owner
// GET /api/v1/admin/businesses/:id
func (ctrl *AdminController) GetBusiness(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetBusiness(id)
	if err != nil {
		respondServiceError(c, err, "load business")
		return
	}

	resp := gin.H{"business": business}
	if business.Owner != nil {
		resp["owner"] = gin.H{
			"id":    business.Owner.ID,
			"email": business.Owner.Email,
			"name":  business.Owner.Name,
			"phone": business.Owner.Phone,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveBusiness makes a pending or rejected business public
// POST /api/v1/admin/businesses/:id/approve
func (ctrl *AdminController) ApproveBusiness(c *gin.Context) {
	ctrl.changeStatus(c, false, func(id uuid.UUID, _ string) (*model.Business, error) {
		return ctrl.businessService.ApproveBusiness(id)
	})
}

// RejectBusiness requires {"reason": "...", "confirm": true}
// POST /api/v1/admin/businesses/:id/reject
func (ctrl *AdminController) RejectBusiness(c *gin.Context) {
	ctrl.changeStatus(c, true, ctrl.businessService.RejectBusiness)
}

// SuspendBusiness requires {"confirm": true}
// POST /api/v1/admin/businesses/:id/suspend
func (ctrl *AdminController) SuspendBusiness(c *gin.Context) {
	ctrl.changeStatus(c, true, ctrl.businessService.SuspendBusiness)
}

// ReactivateBusiness lifts a suspension
// POST /api/v1/admin/businesses/:id/reactivate
func (ctrl *AdminController) ReactivateBusiness(c *gin.Context) {
	ctrl.changeStatus(c, false, func(id uuid.UUID, _ string) (*model.Business, error) {
		return ctrl.businessService.ReactivateBusiness(id)
	})
}

func (ctrl *AdminController) changeStatus(
	c *gin.Context,
	destructive bool,
	apply func(id uuid.UUID, reason string) (*model.Business, error),
) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req StatusChangeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
	}
	if destructive && !apperrors.RequireConfirmation(c, req.Confirm) {
		return
	}

	business, err := apply(id, req.Reason)
	if err != nil {
		respondServiceError(c, err, "update business status")
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Business status changed by admin", map[string]interface{}{
		"business_id": business.ID,
		"status":      business.Status,
		"admin_id":    adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business status updated",
		"business": business,
	})
}

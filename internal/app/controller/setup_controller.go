package controller

import (
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/gin-gonic/gin"
)

// SetupController serves the template library, the one-shot setup commit
// and the server-side wizard.
type SetupController struct {
	setupService  service.SetupService
	wizardService service.SetupWizardService
}

func NewSetupController(setupService service.SetupService, wizardService service.SetupWizardService) *SetupController {
	return &SetupController{
		setupService:  setupService,
		wizardService: wizardService,
	}
}

// ListTemplates returns the category template library
// GET /api/v1/menu/setup/templates?q=momo
func (ctrl *SetupController) ListTemplates(c *gin.Context) {
	templates := ctrl.setupService.ListTemplates(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}

// CompleteSetup creates every submitted category and item in one go
// POST /api/v1/menu/setup/complete
func (ctrl *SetupController) CompleteSetup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var req service.CompleteSetupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	result, err := ctrl.setupService.CompleteMenuSetup(businessID, req)
	if err != nil {
		respondServiceError(c, err, "complete menu setup")
		return
	}

	log.Info("Menu setup completed", map[string]interface{}{
		"business_id": businessID,
		"categories":  result.Counts.Categories,
		"items":       result.Counts.Items,
	})

	c.JSON(http.StatusCreated, result)
}

// GetSetupStatus reports whether the business finished menu setup
// GET /api/v1/menu/setup/status
func (ctrl *SetupController) GetSetupStatus(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	status, err := ctrl.setupService.CheckMenuSetupStatus(businessID)
	if err != nil {
		respondServiceError(c, err, "load setup status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// OpenWizard returns the current wizard state, starting a draft when needed.
// A business that already finished setup lands on the manage step unless
// reenter=true.
// GET /api/v1/menu/setup/wizard?reenter=true
func (ctrl *SetupController) OpenWizard(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	state, err := ctrl.wizardService.Open(c.Request.Context(), businessID, c.Query("reenter") == "true")
	if err != nil {
		respondServiceError(c, err, "load setup wizard")
		return
	}

	c.JSON(http.StatusOK, state)
}

// ApplyWizardAction applies one user interaction to the stored draft
// POST /api/v1/menu/setup/wizard/actions
func (ctrl *SetupController) ApplyWizardAction(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var action wizard.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		invalidBody(c, err)
		return
	}

	state, err := ctrl.wizardService.Apply(c.Request.Context(), businessID, action)
	if err != nil {
		respondServiceError(c, err, "update setup wizard")
		return
	}

	c.JSON(http.StatusOK, state)
}

// FinishWizard commits the reviewed draft
// POST /api/v1/menu/setup/wizard/finish
func (ctrl *SetupController) FinishWizard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	result, err := ctrl.wizardService.Finish(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, err, "complete menu setup")
		return
	}

	log.Info("Menu setup wizard finished", map[string]interface{}{
		"business_id": businessID,
		"categories":  result.Counts.Categories,
		"items":       result.Counts.Items,
	})

	c.JSON(http.StatusCreated, result)
}

// DiscardWizard throws the draft away
// DELETE /api/v1/menu/setup/wizard
func (ctrl *SetupController) DiscardWizard(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	if err := ctrl.wizardService.Discard(c.Request.Context(), businessID); err != nil {
		respondServiceError(c, err, "delete setup wizard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Setup wizard discarded",
	})
}

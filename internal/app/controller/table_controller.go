package controller

import (
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TableController struct {
	tableService service.TableService
}

func NewTableController(tableService service.TableService) *TableController {
	return &TableController{
		tableService: tableService,
	}
}

// ListTables returns the caller's tables, oldest first
// GET /api/v1/tables
func (ctrl *TableController) ListTables(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	tables, err := ctrl.tableService.ListTables(businessID)
	if err != nil {
		respondServiceError(c, err, "load tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tables": tables,
		"count":  len(tables),
	})
}

// GetTable returns one table
// GET /api/v1/tables/:id
func (ctrl *TableController) GetTable(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	table, err := ctrl.tableService.GetTable(businessID, tableID)
	if err != nil {
		respondServiceError(c, err, "load table")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"table": table,
	})
}

// CreateTable registers a table number
// POST /api/v1/tables
func (ctrl *TableController) CreateTable(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var req service.CreateTableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	table, err := ctrl.tableService.CreateTable(businessID, req)
	if err != nil {
		respondServiceError(c, err, "create table")
		return
	}

	log.Info("Table created", map[string]interface{}{
		"business_id": businessID,
		"table_id":    table.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Table created successfully",
		"table":   table,
	})
}

// UpdateTable renames or (de)activates a table
// PUT /api/v1/tables/:id
func (ctrl *TableController) UpdateTable(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateTableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	table, err := ctrl.tableService.UpdateTable(businessID, tableID, req)
	if err != nil {
		respondServiceError(c, err, "update table")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Table updated successfully",
		"table":   table,
	})
}

// DeleteTable removes a table. Printed QR codes for it stop resolving.
// DELETE /api/v1/tables/:id?confirm=true
func (ctrl *TableController) DeleteTable(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if !apperrors.RequireConfirmation(c, c.Query("confirm") == "true") {
		return
	}

	if err := ctrl.tableService.DeleteTable(businessID, tableID); err != nil {
		respondServiceError(c, err, "delete table")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Table deleted successfully",
	})
}

// GetQRCode returns the table's QR code as a PNG data URL
// GET /api/v1/tables/:id/qr
func (ctrl *TableController) GetQRCode(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	qr, err := ctrl.tableService.GenerateQRCode(businessID, tableID)
	if err != nil {
		respondServiceError(c, err, "generate QR code")
		return
	}

	c.JSON(http.StatusOK, qr)
}

// GetQRCard returns a printable card with the QR code, the restaurant name
// and the table number. upload=true also stores the card in object storage.
// GET /api/v1/tables/:id/qr-template?upload=true
func (ctrl *TableController) GetQRCard(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	tableID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	qr, err := ctrl.tableService.GenerateQRCodeWithTemplate(c.Request.Context(), businessID, tableID, c.Query("upload") == "true")
	if err != nil {
		respondServiceError(c, err, "generate QR card")
		return
	}

	c.JSON(http.StatusOK, qr)
}

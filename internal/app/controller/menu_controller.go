package controller

import (
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MenuController serves the owner's catalog. Every handler runs behind
// middleware.RequireBusiness.
type MenuController struct {
	menuService service.MenuService
}

func NewMenuController(menuService service.MenuService) *MenuController {
	return &MenuController{
		menuService: menuService,
	}
}

type ReorderRequest struct {
	Orders []repository.DisplayOrderUpdate `json:"orders" binding:"required,dive"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// GetMenu returns the full catalog including inactive categories and
// unavailable items
// GET /api/v1/menu
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	menu, err := ctrl.menuService.GetCompleteMenu(businessID, service.MenuReadOptions{
		IncludeInactive: c.Query("include_inactive") != "false",
	})
	if err != nil {
		respondServiceError(c, err, "load menu")
		return
	}

	c.JSON(http.StatusOK, menu)
}

// ExportMenu downloads the catalog as an .xlsx workbook
// GET /api/v1/menu/export
func (ctrl *MenuController) ExportMenu(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	data, err := ctrl.menuService.ExportMenuXLSX(businessID)
	if err != nil {
		respondServiceError(c, err, "export menu")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="menu.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// CreateCategory adds a category to the caller's menu
// POST /api/v1/menu/categories
func (ctrl *MenuController) CreateCategory(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var req service.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	category, err := ctrl.menuService.CreateCategory(businessID, req)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory applies a partial update
// PUT /api/v1/menu/categories/:id
func (ctrl *MenuController) UpdateCategory(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	category, err := ctrl.menuService.UpdateCategory(businessID, categoryID, req)
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory removes a category with all its items and sizes
// DELETE /api/v1/menu/categories/:id?confirm=true
func (ctrl *MenuController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if !apperrors.RequireConfirmation(c, c.Query("confirm") == "true") {
		return
	}

	if err := ctrl.menuService.DeleteCategory(businessID, categoryID); err != nil {
		respondServiceError(c, err, "delete category")
		return
	}

	log.Info("Menu category deleted", map[string]interface{}{
		"business_id": businessID,
		"category_id": categoryID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

// ReorderCategories sets display_order for several categories at once
// POST /api/v1/menu/categories/reorder
func (ctrl *MenuController) ReorderCategories(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	if err := ctrl.menuService.ReorderCategories(businessID, req.Orders); err != nil {
		respondServiceError(c, err, "update category order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories reordered successfully",
	})
}

// ReorderItems sets display_order for items of one category
// POST /api/v1/menu/categories/:id/items/reorder
func (ctrl *MenuController) ReorderItems(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	if err := ctrl.menuService.ReorderItems(businessID, categoryID, req.Orders); err != nil {
		respondServiceError(c, err, "update item order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Items reordered successfully",
	})
}

// CreateItem adds an item and its sizes
// POST /api/v1/menu/items
func (ctrl *MenuController) CreateItem(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var req service.CreateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	item, err := ctrl.menuService.CreateItem(businessID, req)
	if err != nil {
		respondServiceError(c, err, "create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"item":    item,
	})
}

// UpdateItem applies a partial update. A sizes array replaces every size.
// PUT /api/v1/menu/items/:id
func (ctrl *MenuController) UpdateItem(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	item, err := ctrl.menuService.UpdateItem(businessID, itemID, req)
	if err != nil {
		respondServiceError(c, err, "update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"item":    item,
	})
}

// DeleteItem removes an item and its sizes
// DELETE /api/v1/menu/items/:id?confirm=true
func (ctrl *MenuController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if !apperrors.RequireConfirmation(c, c.Query("confirm") == "true") {
		return
	}

	if err := ctrl.menuService.DeleteItem(businessID, itemID); err != nil {
		respondServiceError(c, err, "delete menu item")
		return
	}

	log.Info("Menu item deleted", map[string]interface{}{
		"business_id": businessID,
		"item_id":     itemID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}

// ToggleAvailability sets is_available, or flips it when the body is empty
// PATCH /api/v1/menu/items/:id/availability
func (ctrl *MenuController) ToggleAvailability(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
	}

	item, err := ctrl.menuService.ToggleItemAvailability(businessID, itemID, req.IsAvailable)
	if err != nil {
		respondServiceError(c, err, "update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":      item.ID,
		"is_available": item.IsAvailable,
	})
}

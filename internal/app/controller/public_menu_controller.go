package controller

import (
	"net/http"

	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	ws "github.com/drukmenu/drukmenu-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PublicMenuController serves customers who scanned a table QR code. Nothing
// here requires authentication.
type PublicMenuController struct {
	publicMenuService service.PublicMenuService
	hub               *ws.Hub
	upgrader          *websocket.Upgrader
}

// NewPublicMenuController builds the controller. hub may be nil, in which
// case live updates answer 404 like an unknown menu.
func NewPublicMenuController(publicMenuService service.PublicMenuService, hub *ws.Hub, upgrader *websocket.Upgrader) *PublicMenuController {
	return &PublicMenuController{
		publicMenuService: publicMenuService,
		hub:               hub,
		upgrader:          upgrader,
	}
}

// GetPublicMenu resolves the menu behind a printed QR code
// GET /api/v1/public/menu/:businessId/:tableId
func (ctrl *PublicMenuController) GetPublicMenu(c *gin.Context) {
	menu, err := ctrl.publicMenuService.ResolvePublicMenu(c.Param("businessId"), c.Param("tableId"))
	if err != nil {
		respondServiceError(c, err, "load menu")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, menu)
}

// Subscribe upgrades to a websocket that receives menu_updated events for
// the business. The same checks as GetPublicMenu run before the upgrade.
// GET /api/v1/public/menu/:businessId/:tableId/ws
func (ctrl *PublicMenuController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.hub == nil {
		respondServiceError(c, service.ErrMenuNotFound, "load menu")
		return
	}

	businessID, tableID, err := ctrl.publicMenuService.ResolveTarget(c.Param("businessId"), c.Param("tableId"))
	if err != nil {
		respondServiceError(c, err, "load menu")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, businessID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Debug("Menu viewer connected", map[string]interface{}{
		"business_id": businessID,
		"table_id":    tableID,
	})
}

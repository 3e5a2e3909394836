package wizard

import (
	"errors"
	"fmt"
)

type ActionType string

const (
	ActionToggleTemplate  ActionType = "toggle_template"
	ActionToggleSelectAll ActionType = "toggle_select_all"
	ActionToggleItem      ActionType = "toggle_item"
	ActionAddCustomItem   ActionType = "add_custom_item"
	ActionUpdateItem      ActionType = "update_item"
	ActionRemoveItem      ActionType = "remove_item"
	ActionNext            ActionType = "next"
	ActionBack            ActionType = "back"
)

var ErrUnknownAction = errors.New("unknown wizard action")

// Action is one user interaction with the wizard, as sent by the client.
type Action struct {
	Type       ActionType       `json:"type" binding:"required"`
	TemplateID string           `json:"template_id"`
	ItemKey    string           `json:"item_key"`
	Filter     string           `json:"filter"`
	Item       *CustomItemInput `json:"item"`
	Patch      *ItemPatch       `json:"patch"`
}

// Apply dispatches a to the matching Draft method.
func (d *Draft) Apply(a Action) error {
	switch a.Type {
	case ActionToggleTemplate:
		return d.ToggleTemplate(a.TemplateID)
	case ActionToggleSelectAll:
		return d.ToggleSelectAll(a.Filter)
	case ActionToggleItem:
		return d.ToggleItem(a.TemplateID, a.ItemKey)
	case ActionAddCustomItem:
		if a.Item == nil {
			return ErrInvalidItem
		}
		_, err := d.AddCustomItem(a.TemplateID, *a.Item)
		return err
	case ActionUpdateItem:
		if a.Patch == nil {
			return ErrInvalidItem
		}
		return d.UpdateItem(a.TemplateID, a.ItemKey, *a.Patch)
	case ActionRemoveItem:
		return d.RemoveCustomItem(a.TemplateID, a.ItemKey)
	case ActionNext:
		return d.Next()
	case ActionBack:
		return d.Back()
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}

// Package templates holds the fixed library of category and item templates
// used to bootstrap a new restaurant's menu.
package templates

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Icon is a symbolic icon name. Clients map it to their own artwork.
type Icon string

const (
	IconUtensils Icon = "utensils"
	IconFlame    Icon = "flame"
	IconDumpling Icon = "dumpling"
	IconBowl     Icon = "bowl"
	IconSoup     Icon = "soup"
	IconCup      Icon = "cup"
	IconCake     Icon = "cake"
	IconSun      Icon = "sun"
)

type ItemTemplate struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	IsVegetarian *bool           `json:"is_vegetarian"`
	ImageURL     string          `json:"image_url,omitempty"`
}

type CategoryTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        Icon           `json:"icon"`
	Items       []ItemTemplate `json:"items"`
}

// All returns a copy of the whole library in display order.
func All() []CategoryTemplate {
	out := make([]CategoryTemplate, len(library))
	for i, c := range library {
		out[i] = c.clone()
	}
	return out
}

// Find looks up a category template by id.
func Find(id string) (CategoryTemplate, bool) {
	for _, c := range library {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return CategoryTemplate{}, false
}

// FindItem looks up an item template inside a category template.
func FindItem(categoryID, itemID string) (ItemTemplate, bool) {
	c, ok := Find(categoryID)
	if !ok {
		return ItemTemplate{}, false
	}
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return ItemTemplate{}, false
}

// Filter returns the templates whose name or description contains query,
// case-insensitively. An empty query matches everything.
func Filter(query string) []CategoryTemplate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return All()
	}
	out := []CategoryTemplate{}
	for _, c := range library {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c.clone())
		}
	}
	return out
}

func (c CategoryTemplate) clone() CategoryTemplate {
	items := make([]ItemTemplate, len(c.Items))
	for i, item := range c.Items {
		if item.IsVegetarian != nil {
			v := *item.IsVegetarian
			item.IsVegetarian = &v
		}
		items[i] = item
	}
	c.Items = items
	return c
}

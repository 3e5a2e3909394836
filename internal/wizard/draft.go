// Package wizard holds the server-side state of the quick menu setup. A
// Draft moves template -> items -> review and is only written to the
// catalog when the review step is finished.
package wizard

import (
	"errors"
	"strings"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/templates"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Step string

const (
	StepTemplate Step = "template"
	StepItems    Step = "items"
	StepReview   Step = "review"
	StepManage   Step = "manage"
)

var (
	ErrNoCategoriesSelected = errors.New("select at least one category")
	ErrNoItemsSelected      = errors.New("select or add at least one item")
	ErrWrongStep            = errors.New("action not allowed at this step")
	ErrUnknownTemplate      = errors.New("unknown category template")
	ErrCategoryNotSelected  = errors.New("category is not part of the draft")
	ErrUnknownItem          = errors.New("unknown draft item")
	ErrNotCustomItem        = errors.New("only custom items can be removed")
	ErrInvalidItem          = errors.New("item needs a name and a non-negative price")
)

type DraftItem struct {
	Key            string          `json:"key"`
	TemplateItemID *string         `json:"template_item_id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsVegetarian   *bool           `json:"is_vegetarian"`
	IsCustom       bool            `json:"is_custom"`
	Selected       bool            `json:"selected"`
}

type DraftCategory struct {
	TemplateID  string         `json:"template_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        templates.Icon `json:"icon"`
	Items       []DraftItem    `json:"items"`
}

// SelectedItems returns the items that will be created on finish.
func (c *DraftCategory) SelectedItems() []DraftItem {
	var out []DraftItem
	for _, it := range c.Items {
		if it.Selected {
			out = append(out, it)
		}
	}
	return out
}

type Draft struct {
	BusinessID uuid.UUID       `json:"business_id"`
	Step       Step            `json:"step"`
	Reentry    bool            `json:"reentry"`
	Categories []DraftCategory `json:"categories"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func New(businessID uuid.UUID, reentry bool) *Draft {
	return &Draft{
		BusinessID: businessID,
		Step:       StepTemplate,
		Reentry:    reentry,
		Categories: []DraftCategory{},
		UpdatedAt:  time.Now().UTC(),
	}
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}

func (d *Draft) requireStep(steps ...Step) error {
	for _, s := range steps {
		if d.Step == s {
			return nil
		}
	}
	return ErrWrongStep
}

func (d *Draft) categoryIndex(templateID string) int {
	for i, c := range d.Categories {
		if c.TemplateID == templateID {
			return i
		}
	}
	return -1
}

func (d *Draft) category(templateID string) (*DraftCategory, error) {
	i := d.categoryIndex(templateID)
	if i < 0 {
		return nil, ErrCategoryNotSelected
	}
	return &d.Categories[i], nil
}

func (c *DraftCategory) itemIndex(key string) int {
	for i, it := range c.Items {
		if it.Key == key {
			return i
		}
	}
	return -1
}

func newDraftCategory(t templates.CategoryTemplate) DraftCategory {
	dc := DraftCategory{
		TemplateID:  t.ID,
		Name:        t.Name,
		Description: t.Description,
		Icon:        t.Icon,
		Items:       make([]DraftItem, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		id := it.ID
		dc.Items = append(dc.Items, DraftItem{
			Key:            id,
			TemplateItemID: &id,
			Name:           it.Name,
			Description:    it.Description,
			Price:          it.DefaultPrice,
			ImageURL:       it.ImageURL,
			IsVegetarian:   it.IsVegetarian,
		})
	}
	return dc
}

// insertCategory keeps draft categories in template library order no matter
// in which order they were picked.
func (d *Draft) insertCategory(dc DraftCategory) {
	rank := map[string]int{}
	for i, t := range templates.All() {
		rank[t.ID] = i
	}
	pos := len(d.Categories)
	for i, c := range d.Categories {
		if rank[c.TemplateID] > rank[dc.TemplateID] {
			pos = i
			break
		}
	}
	d.Categories = append(d.Categories, DraftCategory{})
	copy(d.Categories[pos+1:], d.Categories[pos:])
	d.Categories[pos] = dc
}

// ToggleTemplate adds the category template to the draft, or removes it if
// already present. Newly added categories start with no items selected.
func (d *Draft) ToggleTemplate(templateID string) error {
	if err := d.requireStep(StepTemplate); err != nil {
		return err
	}
	if i := d.categoryIndex(templateID); i >= 0 {
		d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
		d.touch()
		return nil
	}
	t, ok := templates.Find(templateID)
	if !ok {
		return ErrUnknownTemplate
	}
	d.insertCategory(newDraftCategory(t))
	d.touch()
	return nil
}

// ToggleSelectAll selects every template matching filter, or deselects them
// all when every match is already selected.
func (d *Draft) ToggleSelectAll(filter string) error {
	if err := d.requireStep(StepTemplate); err != nil {
		return err
	}
	matches := templates.Filter(filter)
	if len(matches) == 0 {
		return nil
	}

	allSelected := true
	for _, t := range matches {
		if d.categoryIndex(t.ID) < 0 {
			allSelected = false
			break
		}
	}

	for _, t := range matches {
		i := d.categoryIndex(t.ID)
		switch {
		case allSelected && i >= 0:
			d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
		case !allSelected && i < 0:
			d.insertCategory(newDraftCategory(t))
		}
	}
	d.touch()
	return nil
}

func (d *Draft) ToggleItem(templateID, key string) error {
	if err := d.requireStep(StepItems); err != nil {
		return err
	}
	c, err := d.category(templateID)
	if err != nil {
		return err
	}
	i := c.itemIndex(key)
	if i < 0 {
		return ErrUnknownItem
	}
	c.Items[i].Selected = !c.Items[i].Selected
	d.touch()
	return nil
}

type CustomItemInput struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url"`
	IsVegetarian *bool           `json:"is_vegetarian"`
}

// AddCustomItem appends an owner-authored item, always selected.
func (d *Draft) AddCustomItem(templateID string, in CustomItemInput) (*DraftItem, error) {
	if err := d.requireStep(StepItems, StepReview); err != nil {
		return nil, err
	}
	c, err := d.category(templateID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.IsNegative() {
		return nil, ErrInvalidItem
	}

	c.Items = append(c.Items, DraftItem{
		Key:          "custom-" + uuid.NewString(),
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		IsVegetarian: in.IsVegetarian,
		IsCustom:     true,
		Selected:     true,
	})
	d.touch()
	return &c.Items[len(c.Items)-1], nil
}

type ItemPatch struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	Price        *decimal.Decimal  `json:"price"`
	ImageURL     *string           `json:"image_url"`
	IsVegetarian util.NullableBool `json:"is_vegetarian"`
}

// UpdateItem edits a draft item in place; template items become customized
// copies but keep their template provenance.
func (d *Draft) UpdateItem(templateID, key string, p ItemPatch) error {
	if err := d.requireStep(StepItems, StepReview); err != nil {
		return err
	}
	c, err := d.category(templateID)
	if err != nil {
		return err
	}
	i := c.itemIndex(key)
	if i < 0 {
		return ErrUnknownItem
	}

	item := c.Items[i]
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	if p.IsVegetarian.Set {
		item.IsVegetarian = p.IsVegetarian.Value
	}
	if item.Name == "" || item.Price.IsNegative() {
		return ErrInvalidItem
	}

	c.Items[i] = item
	d.touch()
	return nil
}

func (d *Draft) RemoveCustomItem(templateID, key string) error {
	if err := d.requireStep(StepItems, StepReview); err != nil {
		return err
	}
	c, err := d.category(templateID)
	if err != nil {
		return err
	}
	i := c.itemIndex(key)
	if i < 0 {
		return ErrUnknownItem
	}
	if !c.Items[i].IsCustom {
		return ErrNotCustomItem
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	d.touch()
	return nil
}

// SelectedItemCount counts selected items across all draft categories.
func (d *Draft) SelectedItemCount() int {
	n := 0
	for i := range d.Categories {
		n += len(d.Categories[i].SelectedItems())
	}
	return n
}

// Next advances one step. Leaving review is done by finishing, not Next.
func (d *Draft) Next() error {
	switch d.Step {
	case StepTemplate:
		if len(d.Categories) == 0 {
			return ErrNoCategoriesSelected
		}
		d.Step = StepItems
	case StepItems:
		if d.SelectedItemCount() == 0 {
			return ErrNoItemsSelected
		}
		d.Step = StepReview
	default:
		return ErrWrongStep
	}
	d.touch()
	return nil
}

// Back returns to the previous step without discarding any choices.
func (d *Draft) Back() error {
	switch d.Step {
	case StepItems:
		d.Step = StepTemplate
	case StepReview:
		d.Step = StepItems
	default:
		return ErrWrongStep
	}
	d.touch()
	return nil
}

// ReadyToFinish reports whether the draft can be written to the catalog.
func (d *Draft) ReadyToFinish() error {
	if d.Step != StepReview {
		return ErrWrongStep
	}
	if d.SelectedItemCount() == 0 {
		return ErrNoItemsSelected
	}
	return nil
}

// Package menusheet reads and writes menus as .xlsx workbooks. One row is one
// size of one item; consecutive rows with the same category and item name
// are grouped back together on import.
package menusheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Menu"

var Headers = []string{
	"Category",
	"Category Description",
	"Item",
	"Item Description",
	"Vegetarian",
	"Available",
	"Size",
	"Price",
	"Image URL",
}

const (
	colCategory = iota
	colCategoryDescription
	colItem
	colItemDescription
	colVegetarian
	colAvailable
	colSize
	colPrice
	colImageURL
)

var ErrEmptyWorkbook = errors.New("workbook has no menu rows")

type Size struct {
	Name  string
	Price decimal.Decimal
}

type Item struct {
	Name        string
	Description string
	Vegetarian  *bool
	Available   bool
	ImageURL    string
	Sizes       []Size
}

type Category struct {
	Name        string
	Description string
	Items       []Item
}

// Write renders categories into a single-sheet workbook. Categories without
// items still get one row so they survive a round trip.
func Write(w io.Writer, categories []Category) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	writeRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(SheetName, cell, &values)
	}

	for _, c := range categories {
		if len(c.Items) == 0 {
			if err := writeRow([]interface{}{c.Name, c.Description}); err != nil {
				return fmt.Errorf("failed to write category %q: %w", c.Name, err)
			}
			continue
		}
		for _, item := range c.Items {
			for _, size := range item.Sizes {
				price, _ := size.Price.Round(2).Float64()
				values := []interface{}{
					c.Name,
					c.Description,
					item.Name,
					item.Description,
					formatTriState(item.Vegetarian),
					formatBool(item.Available),
					size.Name,
					price,
					item.ImageURL,
				}
				if err := writeRow(values); err != nil {
					return fmt.Errorf("failed to write item %q: %w", item.Name, err)
				}
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

// Read parses a workbook written by Write (or by hand with the same columns).
func Read(r io.Reader) ([]Category, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}

	var categories []Category
	categoryIndex := map[string]int{}
	itemIndex := map[string]int{}

	// first row is the header
	for i, raw := range rows[1:] {
		line := i + 2
		cell := func(col int) string {
			if col < len(raw) {
				return strings.TrimSpace(raw[col])
			}
			return ""
		}

		categoryName := cell(colCategory)
		if categoryName == "" {
			continue
		}

		ci, ok := categoryIndex[strings.ToLower(categoryName)]
		if !ok {
			categories = append(categories, Category{
				Name:        categoryName,
				Description: cell(colCategoryDescription),
			})
			ci = len(categories) - 1
			categoryIndex[strings.ToLower(categoryName)] = ci
		}

		itemName := cell(colItem)
		if itemName == "" {
			continue
		}

		price, err := decimal.NewFromString(cell(colPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", line, cell(colPrice))
		}
		vegetarian, err := parseTriState(cell(colVegetarian))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		available := true
		if v := cell(colAvailable); v != "" {
			b, err := parseTriState(v)
			if err != nil || b == nil {
				return nil, fmt.Errorf("row %d: invalid availability %q", line, v)
			}
			available = *b
		}

		size := Size{Name: cell(colSize), Price: price}

		key := strings.ToLower(categoryName) + "\x00" + strings.ToLower(itemName)
		ii, ok := itemIndex[key]
		if !ok {
			categories[ci].Items = append(categories[ci].Items, Item{
				Name:        itemName,
				Description: cell(colItemDescription),
				Vegetarian:  vegetarian,
				Available:   available,
				ImageURL:    cell(colImageURL),
			})
			ii = len(categories[ci].Items) - 1
			itemIndex[key] = ii
		}
		categories[ci].Items[ii].Sizes = append(categories[ci].Items[ii].Sizes, size)
	}

	if len(categories) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return categories, nil
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatTriState leaves the cell blank for "no preference".
func formatTriState(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}

func parseTriState(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "yes", "y", "true", "1":
		v := true
		return &v, nil
	case "no", "n", "false", "0":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("invalid yes/no value %q", s)
}

package exporters

import (
	"strconv"
	"strings"

	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/tabular"
)

// AllergenSeparator joins allergen names in the allergens column. Names
// containing it cannot be told apart after export.
const AllergenSeparator = ";"

// Column orders are part of the file format; append new columns at the end.
var (
	CategoryExportColumns = []string{
		"id", "name", "name_es", "description", "description_es", "display_order", "is_active",
	}
	CategoryTemplateColumns = []string{
		"name", "name_es", "description", "description_es", "display_order", "is_active",
	}
	MenuItemExportColumns = []string{
		"id", "category_id", "category_name", "name", "name_es", "description", "description_es",
		"price", "image_url", "is_available", "is_featured", "display_order", "allergens",
	}
	MenuItemTemplateColumns = []string{
		"name", "name_es", "category_name", "description", "description_es",
		"price", "image_url", "is_available", "is_featured", "display_order",
	}
)

// ExportCategories renders categories in snapshot order.
func ExportCategories(categories []entities.Category) string {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.NameES,
			c.Description,
			c.DescriptionES,
			strconv.Itoa(c.DisplayOrder),
			strconv.FormatBool(c.IsActive),
		})
	}
	return tabular.Encode(CategoryExportColumns, rows)
}

// ExportMenuItems renders menu items in snapshot order. category_name is
// looked up in categories and left blank when the category is unknown.
func ExportMenuItems(items []entities.MenuItem, categories []entities.Category) string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.CategoryID,
			names[item.CategoryID],
			item.Name,
			item.NameES,
			item.Description,
			item.DescriptionES,
			FormatPrice(item.Price),
			item.ImageURL,
			strconv.FormatBool(item.IsAvailable),
			strconv.FormatBool(item.IsFeatured),
			strconv.Itoa(item.DisplayOrder),
			strings.Join(item.AllergenNames(), AllergenSeparator),
		})
	}
	return tabular.Encode(MenuItemExportColumns, rows)
}

// CategoryTemplate is an import template with one example row.
func CategoryTemplate() string {
	return tabular.Encode(CategoryTemplateColumns, [][]string{{
		"Coffee", "Café", "Espresso drinks and brewed coffee", "Bebidas de espresso y café filtrado", "1", "true",
	}})
}

// MenuItemTemplate is an import template with one example row.
func MenuItemTemplate() string {
	return tabular.Encode(MenuItemTemplateColumns, [][]string{{
		"Latte", "Latte", "Coffee", "Espresso with steamed milk", "Espresso con leche vaporizada",
		"3500", "https://example.com/images/latte.jpg", "true", "false", "1",
	}})
}

// FormatPrice writes a price without trailing zeros: 3500, 4.5.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

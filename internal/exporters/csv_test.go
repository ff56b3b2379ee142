package exporters

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/tabular"
)

func sampleCatalog() ([]entities.Category, []entities.MenuItem) {
	categories := []entities.Category{
		{ID: "c1", Name: "Coffee", NameES: "Café", Description: "Hot, strong", DisplayOrder: 1, IsActive: true},
		{ID: "c2", Name: "Pastries", Description: `The "best" ones`, DisplayOrder: 2},
	}
	items := []entities.MenuItem{
		{
			ID: "m1", CategoryID: "c1", Name: "Latte", NameES: "Latte", Price: 3500,
			IsAvailable: true, DisplayOrder: 1,
			Allergens: []entities.Allergen{{Name: "milk"}, {Name: "soy"}},
		},
		{
			ID: "m2", CategoryID: "c2", Name: "Croissant, butter", Price: 4.5,
			ImageURL: "https://example.com/c.jpg", IsFeatured: true, DisplayOrder: 2,
		},
		{ID: "m3", CategoryID: "gone", Name: "Orphan"},
	}
	return categories, items
}

func TestExportCategories(t *testing.T) {
	categories, _ := sampleCatalog()

	out := ExportCategories(categories)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,name_es,description,description_es,display_order,is_active", lines[0])
	assert.Equal(t, `c1,Coffee,Café,"Hot, strong",,1,true`, lines[1])
	assert.Equal(t, `c2,Pastries,,"The ""best"" ones",,2,false`, lines[2])
}

func TestExportMenuItems(t *testing.T) {
	categories, items := sampleCatalog()

	rows := tabular.Decode(ExportMenuItems(items, categories))

	require.Len(t, rows, 4)
	assert.Equal(t, MenuItemExportColumns, rows[0])
	assert.Equal(t, []string{"m1", "c1", "Coffee", "Latte", "Latte", "", "", "3500", "", "true", "false", "1", "milk;soy"}, rows[1])
	assert.Equal(t, "Croissant, butter", rows[2][3])
	assert.Equal(t, "4.5", rows[2][7])
	assert.Equal(t, "true", rows[2][10])
	assert.Equal(t, "", rows[3][2], "unknown category exports a blank name")
}

func TestExport_RoundTrip(t *testing.T) {
	categories, items := sampleCatalog()

	rows := tabular.Decode(ExportCategories(categories))
	require.Len(t, rows, len(categories)+1)
	for i, c := range categories {
		want := []string{c.ID, c.Name, c.NameES, c.Description, c.DescriptionES,
			strconv.Itoa(c.DisplayOrder), strconv.FormatBool(c.IsActive)}
		assert.Equal(t, want, rows[i+1])
	}

	itemRows := tabular.Decode(ExportMenuItems(items, categories))
	for i, item := range items {
		assert.Equal(t, item.ID, itemRows[i+1][0])
		assert.Equal(t, item.Name, itemRows[i+1][3])
		assert.Equal(t, strings.Join(item.AllergenNames(), ";"), itemRows[i+1][12])
	}
}

func TestExport_EmptySnapshot(t *testing.T) {
	assert.Equal(t, strings.Join(CategoryExportColumns, ","), ExportCategories(nil))
	assert.Equal(t, strings.Join(MenuItemExportColumns, ","), ExportMenuItems(nil, nil))
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		name    string
		content string
		columns []string
	}{
		{"categories", CategoryTemplate(), CategoryTemplateColumns},
		{"menu items", MenuItemTemplate(), MenuItemTemplateColumns},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := tabular.Decode(tt.content)
			require.Len(t, rows, 2)
			assert.Equal(t, tt.columns, rows[0])
			assert.Len(t, rows[1], len(tt.columns))
			assert.NotContains(t, rows[0], "id")
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "3500", FormatPrice(3500))
	assert.Equal(t, "4.5", FormatPrice(4.5))
	assert.Equal(t, "0", FormatPrice(0))
}

package exporters

// ExportResult counts what a snapshot export wrote.
type ExportResult struct {
	CategoriesExported int      `json:"categories_exported"`
	MenuItemsExported  int      `json:"menu_items_exported"`
	Files              []string `json:"files"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"index;size:255" json:"name"`
	NameES        string    `gorm:"size:255" json:"name_es,omitempty"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	DescriptionES string    `gorm:"type:text" json:"description_es,omitempty"`
	DisplayOrder  int       `gorm:"default:0" json:"display_order"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque identifier when the caller did not set one.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type MenuItem struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	CategoryID    string     `gorm:"index;size:36" json:"category_id"`
	Name          string     `gorm:"index;size:255" json:"name"`
	NameES        string     `gorm:"size:255" json:"name_es,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	DescriptionES string     `gorm:"type:text" json:"description_es,omitempty"`
	Price         float64    `json:"price"`
	ImageURL      string     `gorm:"size:2048" json:"image_url,omitempty"`
	IsAvailable   bool       `gorm:"not null" json:"is_available"`
	IsFeatured    bool       `gorm:"not null" json:"is_featured"`
	DisplayOrder  int        `gorm:"default:0" json:"display_order"`
	Category      Category   `gorm:"foreignKey:CategoryID" json:"-"`
	Allergens     []Allergen `gorm:"many2many:menu_item_allergens;" json:"allergens,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// AllergenNames returns allergen names in association order.
func (m MenuItem) AllergenNames() []string {
	names := make([]string, 0, len(m.Allergens))
	for _, a := range m.Allergens {
		names = append(names, a.Name)
	}
	return names
}

type Allergen struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryDraft is a typed category record produced from one import row.
// ID is the identifier supplied by the row, if any; stores never persist it on create.
type CategoryDraft struct {
	ID            string `csv:"id"`
	Name          string `csv:"name" validate:"required"`
	NameES        string `csv:"name_es"`
	Description   string `csv:"description"`
	DescriptionES string `csv:"description_es"`
	DisplayOrder  int    `csv:"display_order"`
	IsActive      bool   `csv:"is_active"`
}

// MenuItemDraft is a typed menu item record produced from one import row.
// CategoryID is only set once the category reference has been resolved.
type MenuItemDraft struct {
	ID            string  `csv:"id"`
	CategoryID    string  `csv:"category_id" validate:"required"`
	Name          string  `csv:"name" validate:"required"`
	NameES        string  `csv:"name_es"`
	Description   string  `csv:"description"`
	DescriptionES string  `csv:"description_es"`
	Price         float64 `csv:"price" validate:"gte=0"`
	ImageURL      string  `csv:"image_url"`
	IsAvailable   bool    `csv:"is_available"`
	IsFeatured    bool    `csv:"is_featured"`
	DisplayOrder  int     `csv:"display_order"`
}

// Apply copies the draft onto a category, leaving ID and timestamps untouched.
func (d CategoryDraft) Apply(c *Category) {
	c.Name = d.Name
	c.NameES = d.NameES
	c.Description = d.Description
	c.DescriptionES = d.DescriptionES
	c.DisplayOrder = d.DisplayOrder
	c.IsActive = d.IsActive
}

// Apply copies the draft onto a menu item. Allergens are not part of the import
// surface and are left as they are.
func (d MenuItemDraft) Apply(m *MenuItem) {
	m.CategoryID = d.CategoryID
	m.Name = d.Name
	m.NameES = d.NameES
	m.Description = d.Description
	m.DescriptionES = d.DescriptionES
	m.Price = d.Price
	m.ImageURL = d.ImageURL
	m.IsAvailable = d.IsAvailable
	m.IsFeatured = d.IsFeatured
	m.DisplayOrder = d.DisplayOrder
}

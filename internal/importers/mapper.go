package importers

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// Canonical field keys.
const (
	FieldID            = "id"
	FieldCategoryID    = "category_id"
	FieldCategoryName  = "category_name"
	FieldName          = "name"
	FieldNameES        = "name_es"
	FieldDescription   = "description"
	FieldDescriptionES = "description_es"
	FieldPrice         = "price"
	FieldImageURL      = "image_url"
	FieldIsAvailable   = "is_available"
	FieldIsFeatured    = "is_featured"
	FieldIsActive      = "is_active"
	FieldDisplayOrder  = "display_order"
)

// MenuItemRow is a mapped menu item whose category reference is not resolved yet.
type MenuItemRow struct {
	Draft        entities.MenuItemDraft
	CategoryName string
}

// Mapper turns raw rows into typed drafts.
type Mapper struct {
	validate *validator.Validate
}

// NewMapper creates a Mapper. Validation errors name fields by their csv tag.
func NewMapper() *Mapper {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("csv"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Mapper{validate: v}
}

// NormalizeHeader lower-cases a header token and collapses internal whitespace
// into single underscores: " Display  Order " becomes "display_order".
func NormalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), "_")
}

// NormalizeHeaders applies NormalizeHeader to every token.
func NormalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	return normalized
}

// FieldMap zips normalized headers with a row. Missing trailing cells map to
// the empty string; cells beyond the header are ignored.
func FieldMap(headers, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		if _, seen := fields[h]; !seen {
			fields[h] = value
		}
	}
	return fields
}

// MapCategory builds a category draft. position is the 1-based row position
// within the batch and is the fallback display order.
func (m *Mapper) MapCategory(fields map[string]string, position int) (entities.CategoryDraft, error) {
	draft := entities.CategoryDraft{
		ID:            fields[FieldID],
		Name:          fields[FieldName],
		NameES:        fields[FieldNameES],
		Description:   fields[FieldDescription],
		DescriptionES: fields[FieldDescriptionES],
		DisplayOrder:  parseIntOr(fields[FieldDisplayOrder], position),
		IsActive:      optOut(fields[FieldIsActive]),
	}

	if err := m.Validate(draft); err != nil {
		return entities.CategoryDraft{}, err
	}
	return draft, nil
}

// MapMenuItem builds a menu item draft. The category reference is carried
// unresolved: Draft.CategoryID holds the raw category_id cell and
// CategoryName the raw category_name cell.
func (m *Mapper) MapMenuItem(fields map[string]string, position int) (MenuItemRow, error) {
	name := fields[FieldName]
	if name == "" {
		return MenuItemRow{}, missingField(FieldName)
	}

	price, err := parsePrice(fields[FieldPrice])
	if err != nil {
		return MenuItemRow{}, err
	}

	return MenuItemRow{
		Draft: entities.MenuItemDraft{
			ID:            fields[FieldID],
			CategoryID:    fields[FieldCategoryID],
			Name:          name,
			NameES:        fields[FieldNameES],
			Description:   fields[FieldDescription],
			DescriptionES: fields[FieldDescriptionES],
			Price:         price,
			ImageURL:      fields[FieldImageURL],
			IsAvailable:   optOut(fields[FieldIsAvailable]),
			IsFeatured:    optIn(fields[FieldIsFeatured]),
			DisplayOrder:  parseIntOr(fields[FieldDisplayOrder], position),
		},
		CategoryName: fields[FieldCategoryName],
	}, nil
}

// Validate checks a draft's struct tags and converts the first violation
// into a row error.
func (m *Mapper) Validate(draft any) error {
	err := m.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return missingField(fe.Field())
	}
	return invalidValue(fe.Field(), fmt.Sprint(fe.Value()))
}

// parsePrice falls back to 0 for blank or unparsable input. A parsable
// negative price is rejected.
func parsePrice(raw string) (float64, error) {
	price := parseFloatOr(raw, 0)
	if price < 0 {
		return 0, invalidValue(FieldPrice, raw)
	}
	return price, nil
}

func parseFloatOr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// parseIntOr accepts integers and truncates decimals ("3.0" is 3).
func parseIntOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return fallback
	}
	return int(f)
}

// optOut is true unless the value is "false" (any case).
func optOut(raw string) bool {
	return !strings.EqualFold(strings.TrimSpace(raw), "false")
}

// optIn is false unless the value is "true" (any case).
func optIn(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

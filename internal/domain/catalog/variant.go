package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable combination of option values for a
// product with variants. Variants are stored as a JSON column on the
// product row rather than as separate rows.
type ProductVariant struct {
	SKU      string            `json:"sku"`
	Options  map[string]string `json:"options"` // Option name -> value, e.g. {"Size":"M"}
	Price    *decimal.Decimal  `json:"price,omitempty"`
	Quantity int               `json:"quantity"`
	ImageURL string            `json:"image_url,omitempty"`
}

// Title returns a human-readable label like "M / Red"
func (v ProductVariant) Title() string {
	if len(v.Options) == 0 {
		return v.SKU
	}
	values := make([]string, 0, len(v.Options))
	for _, val := range v.Options {
		values = append(values, val)
	}
	return strings.Join(values, " / ")
}

// VariantList is a JSON-column slice of product variants
type VariantList []ProductVariant

// Find returns the variant with the given SKU, or nil
func (l VariantList) Find(sku string) *ProductVariant {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for i := range l {
		if l[i].SKU == sku {
			return &l[i]
		}
	}
	return nil
}

// Value implements driver.Valuer for JSON column storage
func (l VariantList) Value() (driver.Value, error) {
	if l == nil {
		l = VariantList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *VariantList) Scan(value any) error {
	return scanJSON(value, l)
}

// ProductImage is a gallery entry for a product
type ProductImage struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text,omitempty"`
	Position int    `json:"position"`
}

// ImageList is a JSON-column slice of product images
type ImageList []ProductImage

// Value implements driver.Valuer for JSON column storage
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *ImageList) Scan(value any) error {
	return scanJSON(value, l)
}

// StringList is a JSON-column slice of strings (tags, option names)
type StringList []string

// Value implements driver.Valuer for JSON column storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

// Contains reports whether the list holds the given value
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

func scanJSON(value, dest any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", value)
	}
}

package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CartItem is a single line in a shopper's cart. Product name, brand, image
// and unit price are denormalized at add time so the line survives later
// catalog edits unchanged.
type CartItem struct {
	ProductID string            `json:"product_id" validate:"required"`
	Name      string            `json:"name"`
	Brand     string            `json:"brand"`
	Image     string            `json:"image"`
	Price     float64           `json:"price"` // Unit price at the time the item was added
	Quantity  int               `json:"quantity" validate:"gte=1"`
	Variant   map[string]string `json:"variant"` // Selected variant fields, e.g. "storage" -> "256GB"
	AddedAt   time.Time         `json:"added_at"`
}

// VariantKey returns a canonical representation of the selected variant so
// that two lines for the same product+variant combination compare equal.
func (ci CartItem) VariantKey() string {
	if len(ci.Variant) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ci.Variant))
	for k := range ci.Variant {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, ci.Variant[k]))
	}
	return strings.Join(parts, ";")
}

// SameLine reports whether other belongs to the same cart line, i.e. it
// references the same product with the same variant selection.
func (ci CartItem) SameLine(other CartItem) bool {
	return ci.ProductID == other.ProductID && ci.VariantKey() == other.VariantKey()
}

// Subtotal is the line total for this item.
func (ci CartItem) Subtotal() float64 {
	return ci.Price * float64(ci.Quantity)
}

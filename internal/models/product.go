package models

import "gorm.io/gorm"

// Product represents a stock-bearing product in the catalog.
type Product struct {
	ID          string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string              `json:"name" validate:"required,min=3,max=100"`
	Brand       string              `json:"brand" validate:"omitempty,max=100"`
	Category    string              `json:"category" validate:"omitempty,max=100"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	Stock       int                 `json:"stock" validate:"gte=0"`
	Images      []string            `json:"images" gorm:"serializer:json"`

	// Options holds the selectable variant axes, e.g. "storage" -> ["128GB", "256GB"].
	Options map[string][]string `json:"options" gorm:"serializer:json"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

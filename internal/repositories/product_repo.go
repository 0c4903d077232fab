package repositories

import (
	"github.com/nkswalih/e-commerce-sub000/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock subtracts qty from the product's stock. It returns
	// ErrInsufficientStock when the current stock is lower than qty,
	// leaving the stock untouched, and ErrNotFound when the product does
	// not exist. This is the write the checkout decrement pass issues; it
	// must never drive stock below zero, even under concurrent callers.
	DecrementStock(id string, qty int) error
}

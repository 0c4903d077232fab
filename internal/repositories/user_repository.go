package repositories

import "github.com/nkswalih/e-commerce-sub000/internal/models"

// UserRepository defines the interface for user data access, including the
// embedded documents the user record carries: the canonical cart and the
// per-user mirror of the order collection.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	// UpdateCart overwrites the user's embedded cart.
	UpdateCart(userID string, items []models.CartItem) error
	// AppendOrder appends an order to the user's embedded order history.
	AppendOrder(userID string, order models.Order) error
	// UpdateEmbeddedOrder replaces the matching entry in the user's
	// embedded order history. The entry must already exist.
	UpdateEmbeddedOrder(userID string, order models.Order) error
}

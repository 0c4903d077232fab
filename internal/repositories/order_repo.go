package repositories

import (
	"github.com/nkswalih/e-commerce-sub000/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted, only status-mutated, so no Delete is exposed.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	// UpdateStatus sets the order's status, stamping CancelledAt when the
	// new status is cancelled, and returns the updated order so callers
	// can mirror it into the owner's embedded history.
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
}

package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/resourcestore"
)

// RESTOrderRepository backs OrderRepository with a generic REST resource
// store (the `orders` collection).
type RESTOrderRepository struct {
	store *resourcestore.Client
}

// NewRESTOrderRepository creates a new instance of RESTOrderRepository.
func NewRESTOrderRepository(store *resourcestore.Client) *RESTOrderRepository {
	return &RESTOrderRepository{
		store: store,
	}
}

// GetAll retrieves all orders from the resource store.
func (r *RESTOrderRepository) GetAll() ([]models.Order, error) {
	ctx, cancel := restContext()
	defer cancel()

	var orders []models.Order
	if err := r.store.List(ctx, "orders", &orders); err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID from the resource store.
func (r *RESTOrderRepository) GetByID(id string) (*models.Order, error) {
	ctx, cancel := restContext()
	defer cancel()

	var order models.Order
	if err := r.store.Get(ctx, "orders", id, &order); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUserID retrieves all orders belonging to a user. The flat store has
// no server-side filter, so the full collection is scanned client-side,
// the way the legacy frontend did it.
func (r *RESTOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	all, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	for _, order := range all {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// Create creates a new order in the resource store.
func (r *RESTOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()

	ctx, cancel := restContext()
	defer cancel()

	if err := r.store.Create(ctx, "orders", order, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus patches the order's status fields and returns the updated
// representation.
func (r *RESTOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.StatusCancelled {
		fields["cancelled_at"] = time.Now()
	}

	var order models.Order
	if err := r.store.Patch(ctx, "orders", id, fields, &order); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update status for order %s: %w", id, err)
	}
	return &order, nil
}

package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
)

// OrderService handles the order status workflow. Every status write goes
// to the global order collection first and is then mirrored into the
// owner's embedded history; a failure between the two writes leaves them
// inconsistent and is only logged, since no compensating action exists.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	events    EventPublisher
}

// NewOrderService creates a new OrderService. events may be nil to disable
// event publication.
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		events:    events,
	}
}

// GetAllOrders retrieves all orders (administrative view).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByUser retrieves the orders belonging to one user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.orderRepo.GetByUserID(userID)
}

// UpdateStatus sets an order to the given status. This is the
// administrative write: any known status is reachable from any state.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update status for order %s: %w", id, err)
	}

	s.mirrorAndPublish(order)
	return order, nil
}

// CancelOrder cancels an order on behalf of its owner. Cancellation is
// allowed only while the order has not shipped or reached a terminal
// status.
func (s *OrderService) CancelOrder(id, userID string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if !models.Cancellable(order.Status) {
		return nil, fmt.Errorf("%w (current status: %s)", ErrCancelNotAllowed, order.Status)
	}

	updated, err := s.orderRepo.UpdateStatus(id, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", id, err)
	}

	s.mirrorAndPublish(updated)
	return updated, nil
}

// mirrorAndPublish writes the updated order into the owner's embedded
// history and emits a status-changed event. Both are best-effort.
func (s *OrderService) mirrorAndPublish(order *models.Order) {
	if err := s.userRepo.UpdateEmbeddedOrder(order.UserID, *order); err != nil {
		log.Printf("Warning: status of order %s updated but history mirror write failed for user %s: %v",
			order.ID, order.UserID, err)
	}

	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal order status event: %v", err)
		return
	}
	if err := s.events.Publish(EventOrderStatusChanged, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", EventOrderStatusChanged, order.ID, err)
	}
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
)

// Shipping pricing: orders whose subtotal exceeds the threshold ship free,
// everything else pays the flat fee.
const (
	FreeShippingThreshold = 100000.0
	FlatShippingFee       = 99.0
)

// CheckoutService converts a shopper's cart into a persisted order,
// decrementing inventory and clearing the cart. The flow is sequential and
// has no rollback: once the decrement pass has started, a later failure
// leaves the decrements already written in place.
type CheckoutService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	events      EventPublisher
	validate    *validator.Validate
}

// NewCheckoutService creates a new CheckoutService. events may be nil to
// disable event publication.
func NewCheckoutService(
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	events EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		events:      events,
		validate:    validator.New(),
	}
}

// ShippingFee returns the shipping charge for a given subtotal.
func ShippingFee(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// PlaceOrder runs the full checkout flow for the session user.
//
// Preconditions (no I/O until all pass): a session user must be present,
// the shipping form must validate, and the cart must be non-empty.
// Then:
//  1. verification pass: every line's product is fetched and its stock
//     checked; any shortfall aborts with a StockError before anything is
//     written;
//  2. decrement pass: stock is subtracted per line via a conditional
//     decrement, so a concurrent checkout that won the race surfaces as a
//     stock conflict instead of overselling;
//  3. the order is materialized (subtotal, shipping, total, status
//     confirmed) and created in the order collection;
//  4. the order is appended to the user's embedded history — failure here
//     is logged but does not fail the checkout, the order already exists;
//  5. the cart is cleared.
func (s *CheckoutService) PlaceOrder(userID string, shipping models.ShippingInfo, paymentMethod string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := s.validate.Struct(shipping); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShipping, err)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	// Pass 1: verify stock for every line before mutating anything.
	for _, item := range user.Cart {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, &StockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}
	}

	// Pass 2: decrement stock per line. A conflict here means another
	// checkout took the stock between the two passes; it is surfaced, and
	// decrements already applied for earlier lines are not rolled back.
	for _, item := range user.Cart {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return nil, &StockError{
					ProductID: item.ProductID,
					Name:      item.Name,
					Requested: item.Quantity,
				}
			}
			return nil, err
		}
	}

	// Materialize the order.
	items := make([]models.OrderItem, 0, len(user.Cart))
	var subtotal float64
	for _, ci := range user.Cart {
		line := models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Brand:     ci.Brand,
			Image:     ci.Image,
			Variant:   ci.Variant,
			Quantity:  ci.Quantity,
			Price:     ci.Price,
			LineTotal: ci.Subtotal(),
		}
		items = append(items, line)
		subtotal += line.LineTotal
	}
	fee := ShippingFee(subtotal)

	order := &models.Order{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		UserName:      user.Name,
		UserEmail:     user.Email,
		Items:         items,
		Subtotal:      subtotal,
		ShippingFee:   fee,
		Total:         subtotal + fee,
		Status:        models.StatusConfirmed,
		PaymentMethod: paymentMethod,
		Shipping:      shipping,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Mirror into the user's embedded history. The order already exists in
	// the global collection, so a failure here must not discard it; the two
	// copies simply diverge until reconciled.
	if err := s.userRepo.AppendOrder(user.ID, *order); err != nil {
		log.Printf("Warning: order %s created but history mirror write failed for user %s: %v", order.ID, user.ID, err)
	}

	// Clear the cart. Best-effort as well: the checkout already succeeded.
	if err := s.userRepo.UpdateCart(user.ID, []models.CartItem{}); err != nil {
		log.Printf("Warning: failed to clear cart for user %s after order %s: %v", user.ID, order.ID, err)
	}

	s.publishOrderCreated(order)

	return order, nil
}

func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.events.Publish(EventOrderCreated, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", EventOrderCreated, order.ID, err)
	} else {
		log.Printf("Published %s event for order %s", EventOrderCreated, order.ID)
	}
}

package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
	"github.com/nkswalih/e-commerce-sub000/internal/services"
)

type orderFixture struct {
	svc       *services.OrderService
	userRepo  *repositories.MockUserRepository
	orderRepo *repositories.MockOrderRepository
	userID    string
	orderID   string
}

func newOrderFixture(t *testing.T, status models.OrderStatus) *orderFixture {
	t.Helper()

	userRepo := repositories.NewMockUserRepository()
	orderRepo := repositories.NewMockOrderRepository()

	user := &models.User{Name: "Owner", Email: "owner@example.com", Password: "hash"}
	assert.NoError(t, userRepo.Create(user))

	order := &models.Order{
		UserID:   user.ID,
		Status:   status,
		Subtotal: 50000, ShippingFee: 99, Total: 50099,
	}
	assert.NoError(t, orderRepo.Create(order))
	// Mirror the order into the user's embedded history, as checkout does
	assert.NoError(t, userRepo.AppendOrder(user.ID, *order))

	return &orderFixture{
		svc:       services.NewOrderService(orderRepo, userRepo, nil),
		userRepo:  userRepo,
		orderRepo: orderRepo,
		userID:    user.ID,
		orderID:   order.ID,
	}
}

func TestOrderService_CancelEligibility(t *testing.T) {
	cancellable := []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
	}
	notCancellable := []models.OrderStatus{
		models.StatusShipped, models.StatusDelivered, models.StatusCompleted,
		models.StatusCancelled, models.StatusRefunded,
	}

	for _, status := range cancellable {
		t.Run(string(status), func(t *testing.T) {
			f := newOrderFixture(t, status)
			order, err := f.svc.CancelOrder(f.orderID, f.userID)
			assert.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, order.Status)
			assert.NotNil(t, order.CancelledAt)
		})
	}

	for _, status := range notCancellable {
		t.Run(string(status), func(t *testing.T) {
			f := newOrderFixture(t, status)
			_, err := f.svc.CancelOrder(f.orderID, f.userID)
			assert.ErrorIs(t, err, services.ErrCancelNotAllowed)

			// The order keeps its status
			stored, _ := f.orderRepo.GetByID(f.orderID)
			assert.Equal(t, status, stored.Status)
		})
	}
}

func TestOrderService_CancelOwnershipAndAuth(t *testing.T) {
	f := newOrderFixture(t, models.StatusConfirmed)

	_, err := f.svc.CancelOrder(f.orderID, "")
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	_, err = f.svc.CancelOrder(f.orderID, "someone-else")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.svc.CancelOrder("no-such-order", f.userID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_AdminStatusWrites(t *testing.T) {
	f := newOrderFixture(t, models.StatusConfirmed)

	// The admin write reaches any status from any status, including ones
	// the owner-cancellation path refuses to leave.
	for _, status := range []models.OrderStatus{
		models.StatusShipped, models.StatusPending, models.StatusRefunded, models.StatusProcessing,
	} {
		order, err := f.svc.UpdateStatus(f.orderID, status)
		assert.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	// Unknown statuses are rejected
	_, err := f.svc.UpdateStatus(f.orderID, "teleported")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestOrderService_StatusWriteMirrorsIntoUserHistory(t *testing.T) {
	f := newOrderFixture(t, models.StatusConfirmed)

	_, err := f.svc.UpdateStatus(f.orderID, models.StatusShipped)
	assert.NoError(t, err)

	user, err := f.userRepo.GetByID(f.userID)
	assert.NoError(t, err)
	assert.Len(t, user.Orders, 1)
	assert.Equal(t, models.StatusShipped, user.Orders[0].Status)
}

func TestOrderService_GetOrdersByUser(t *testing.T) {
	f := newOrderFixture(t, models.StatusConfirmed)

	orders, err := f.svc.GetOrdersByUser(f.userID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.svc.GetOrdersByUser("")
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
	"github.com/nkswalih/e-commerce-sub000/internal/services"
)

// AdminHandler handles the back-office routes: user management, order
// status administration and the dashboard.
type AdminHandler struct {
	users     *services.UserService
	orders    *services.OrderService
	analytics *services.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *services.UserService, orders *services.OrderService, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		users:     users,
		orders:    orders,
		analytics: analytics,
	}
}

// RegisterRoutes registers the admin routes. The router passed in must
// already carry the auth and admin-role middleware.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleDashboard)

	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Patch("/:id/role", h.HandleUpdateUserRole)
	userRoutes.Delete("/:id", h.HandleDeleteUser)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleDashboard returns the dashboard aggregates.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.analytics.Dashboard()
	if err != nil {
		log.Printf("Error computing dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute dashboard",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleGetUsers retrieves all users.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.users.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
			"error":   err.Error(),
		})
	}
	return c.JSON(users)
}

// HandleUpdateUserRole changes a user's role tag.
func (h *AdminHandler) HandleUpdateUserRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.users.UpdateRole(c.Params("id"), req.Role)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update role",
			"error":   err.Error(),
		})
	}
	return c.JSON(user)
}

// HandleDeleteUser removes a user.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.users.DeleteUser(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error deleting user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete user",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// HandleGetAllOrders retrieves every order in the store.
func (h *AdminHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus sets an order to any known status. No transition
// table applies to administrative writes.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	order, err := h.orders.UpdateStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid order status: %s", req.Status),
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error updating status for order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

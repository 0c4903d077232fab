package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nkswalih/e-commerce-sub000/internal/middleware"
	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
	"github.com/nkswalih/e-commerce-sub000/internal/services"
)

// CartHandler handles HTTP requests for the shopper's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

func cartResponse(c *fiber.Ctx, items []models.CartItem) error {
	return c.JSON(fiber.Map{
		"items":    items,
		"subtotal": services.CartSubtotal(items),
	})
}

// HandleGetCart returns the session user's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(middleware.SessionUserID(c))
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, items)
}

// CartItemRequest is the body for adding or mutating a cart line.
type CartItemRequest struct {
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant"`
}

// HandleAddItem adds a product to the cart, merging with an existing line
// for the same product+variant combination.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" || req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id and a quantity of at least 1 are required",
		})
	}

	items, err := h.service.AddItem(middleware.SessionUserID(c), req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, items)
}

// HandleUpdateQuantity sets a cart line's quantity; a quantity below 1
// removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	items, err := h.service.UpdateQuantity(middleware.SessionUserID(c), req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, items)
}

// HandleRemoveItem removes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	items, err := h.service.RemoveItem(middleware.SessionUserID(c), req.ProductID, req.Variant)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, items)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.SessionUserID(c)); err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, []models.CartItem{})
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authenticated",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	default:
		log.Printf("Cart operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Cart operation failed",
			"error":   err.Error(),
		})
	}
}

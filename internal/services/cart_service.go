package services

import (
	"fmt"
	"time"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/repositories"
)

// CartService lets a shopper assemble line items before checkout. The cart
// embedded in the user record is the single canonical store; every
// mutation reads the current cart, applies the change and writes the whole
// array back through the user repository.
type CartService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's current cart.
func (s *CartService) GetCart(userID string) ([]models.CartItem, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Cart == nil {
		return []models.CartItem{}, nil
	}
	return user.Cart, nil
}

// AddItem adds a product to the cart. If a line for the same product and
// variant combination already exists its quantity is increased, so the cart
// never holds two lines for one combination. Name, brand, image and unit
// price are snapshotted from the catalog at add time.
func (s *CartService) AddItem(userID, productID string, quantity int, variant map[string]string) ([]models.CartItem, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	newItem := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		Price:     product.Price,
		Quantity:  quantity,
		Variant:   variant,
		AddedAt:   time.Now(),
	}
	if len(product.Images) > 0 {
		newItem.Image = product.Images[0]
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart {
		if cart[i].SameLine(newItem) {
			cart[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart = append(cart, newItem)
	}

	if err := s.userRepo.UpdateCart(userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// UpdateQuantity sets a cart line's quantity. A quantity below 1 removes
// the line entirely; a quantity is never stored as zero or negative.
func (s *CartService) UpdateQuantity(userID, productID string, variant map[string]string, quantity int) ([]models.CartItem, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	key := models.CartItem{ProductID: productID, Variant: variant}
	updated := make([]models.CartItem, 0, len(cart))
	found := false
	for _, item := range cart {
		if item.SameLine(key) {
			found = true
			if quantity < 1 {
				continue // drop the line
			}
			item.Quantity = quantity
		}
		updated = append(updated, item)
	}
	if !found {
		return nil, fmt.Errorf("cart line for product %s: %w", productID, repositories.ErrNotFound)
	}

	if err := s.userRepo.UpdateCart(userID, updated); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return updated, nil
}

// RemoveItem removes a cart line.
func (s *CartService) RemoveItem(userID, productID string, variant map[string]string) ([]models.CartItem, error) {
	return s.UpdateQuantity(userID, productID, variant, 0)
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.userRepo.UpdateCart(userID, []models.CartItem{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CartSubtotal sums the line totals of the given cart.
func CartSubtotal(items []models.CartItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal()
	}
	return subtotal
}

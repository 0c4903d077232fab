package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/resourcestore"
)

const restRequestTimeout = 10 * time.Second

// RESTProductRepository backs ProductRepository with a generic REST
// resource store (the `products` collection).
type RESTProductRepository struct {
	store *resourcestore.Client
}

// NewRESTProductRepository creates a new instance of RESTProductRepository.
func NewRESTProductRepository(store *resourcestore.Client) *RESTProductRepository {
	return &RESTProductRepository{
		store: store,
	}
}

func restContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), restRequestTimeout)
}

// GetAll retrieves all products from the resource store.
func (r *RESTProductRepository) GetAll() ([]models.Product, error) {
	ctx, cancel := restContext()
	defer cancel()

	var products []models.Product
	if err := r.store.List(ctx, "products", &products); err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the resource store.
func (r *RESTProductRepository) GetByID(id string) (*models.Product, error) {
	ctx, cancel := restContext()
	defer cancel()

	var product models.Product
	if err := r.store.Get(ctx, "products", id, &product); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the resource store.
func (r *RESTProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	ctx, cancel := restContext()
	defer cancel()

	if err := r.store.Create(ctx, "products", product, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing product.
func (r *RESTProductRepository) Update(product *models.Product) error {
	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{
		"name":        product.Name,
		"brand":       product.Brand,
		"category":    product.Category,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"images":      product.Images,
		"options":     product.Options,
	}
	if err := r.store.Patch(ctx, "products", product.ID, fields, nil); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete deletes a product by its ID from the resource store.
func (r *RESTProductRepository) Delete(id string) error {
	ctx, cancel := restContext()
	defer cancel()

	if err := r.store.Delete(ctx, "products", id); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// DecrementStock re-reads the product's stock immediately before writing it
// back. The store has no conditional-update primitive, so the read-check-
// write is still a window, but a stale verification pass is at least caught
// here and surfaced instead of being overwritten through.
func (r *RESTProductRepository) DecrementStock(id string, qty int) error {
	product, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if product.Stock < qty {
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}

	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{"stock": product.Stock - qty}
	if err := r.store.Patch(ctx, "products", id, fields, nil); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to decrement stock for product %s: %w", id, err)
	}
	return nil
}

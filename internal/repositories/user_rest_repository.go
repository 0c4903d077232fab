package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkswalih/e-commerce-sub000/internal/models"
	"github.com/nkswalih/e-commerce-sub000/internal/resourcestore"
)

// RESTUserRepository backs UserRepository with a generic REST resource
// store (the `users` collection). The store enforces no uniqueness, so the
// email check happens client-side against the full collection.
type RESTUserRepository struct {
	store *resourcestore.Client
}

// NewRESTUserRepository creates a new instance of RESTUserRepository.
func NewRESTUserRepository(store *resourcestore.Client) *RESTUserRepository {
	return &RESTUserRepository{
		store: store,
	}
}

// Create creates a new user in the resource store after a client-side
// uniqueness scan.
func (r *RESTUserRepository) Create(user *models.User) error {
	existing, err := r.GetAll()
	if err != nil {
		return err
	}
	for _, u := range existing {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicate)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	ctx, cancel := restContext()
	defer cancel()

	if err := r.store.Create(ctx, "users", user, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll retrieves all users from the resource store.
func (r *RESTUserRepository) GetAll() ([]models.User, error) {
	ctx, cancel := restContext()
	defer cancel()

	var users []models.User
	if err := r.store.List(ctx, "users", &users); err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByEmail scans the collection for a user with the given email.
func (r *RESTUserRepository) GetByEmail(email string) (*models.User, error) {
	users, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByID retrieves a user by their ID from the resource store.
func (r *RESTUserRepository) GetByID(id string) (*models.User, error) {
	ctx, cancel := restContext()
	defer cancel()

	var user models.User
	if err := r.store.Get(ctx, "users", id, &user); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update patches the mutable fields of an existing user.
func (r *RESTUserRepository) Update(user *models.User) error {
	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
		"cart":   user.Cart,
		"orders": user.Orders,
	}
	if err := r.store.Patch(ctx, "users", user.ID, fields, nil); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a user by their ID from the resource store.
func (r *RESTUserRepository) Delete(id string) error {
	ctx, cancel := restContext()
	defer cancel()

	if err := r.store.Delete(ctx, "users", id); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateCart patches only the embedded cart field.
func (r *RESTUserRepository) UpdateCart(userID string, items []models.CartItem) error {
	ctx, cancel := restContext()
	defer cancel()

	if items == nil {
		items = []models.CartItem{}
	}
	fields := map[string]interface{}{"cart": items}
	if err := r.store.Patch(ctx, "users", userID, fields, nil); err != nil {
		if errors.Is(err, resourcestore.ErrNotFound) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update cart for user %s: %w", userID, err)
	}
	return nil
}

// AppendOrder re-fetches the user, appends the order and patches the merged
// history back. Read-modify-write with no concurrency token, so a racing
// writer can be lost; the mirror is best-effort by design.
func (r *RESTUserRepository) AppendOrder(userID string, order models.Order) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{"orders": append(user.Orders, order)}
	if err := r.store.Patch(ctx, "users", userID, fields, nil); err != nil {
		return fmt.Errorf("failed to append order for user %s: %w", userID, err)
	}
	return nil
}

// UpdateEmbeddedOrder replaces the matching entry in the user's embedded
// order history.
func (r *RESTUserRepository) UpdateEmbeddedOrder(userID string, order models.Order) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}

	found := false
	for i := range user.Orders {
		if user.Orders[i].ID == order.ID {
			user.Orders[i] = order
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("order %s in history of user %s: %w", order.ID, userID, ErrNotFound)
	}

	ctx, cancel := restContext()
	defer cancel()

	fields := map[string]interface{}{"orders": user.Orders}
	if err := r.store.Patch(ctx, "users", userID, fields, nil); err != nil {
		return fmt.Errorf("failed to update order history for user %s: %w", userID, err)
	}
	return nil
}

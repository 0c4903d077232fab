package models

import "gorm.io/gorm"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user of the store. The cart and order history are
// embedded documents: the cart is the canonical cart store, and the order
// array mirrors the global order collection for the user's own orders.
type User struct {
	ID       string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	Email    string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role     string     `json:"role" gorm:"type:varchar(20);default:user"`
	Cart     []CartItem `json:"cart" gorm:"serializer:json"`
	Orders   []Order    `json:"orders" gorm:"serializer:json"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

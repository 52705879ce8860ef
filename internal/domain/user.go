package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name string, createdAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
	}
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List returns users filtered by ids when ids is non-empty, paginated by
	// from/size, ordered by id.
	List(ctx context.Context, ids []string, from, size int) ([]*User, error)
	Delete(ctx context.Context, id string) error
}

// UserService defines admin-facing user management operations.
type UserService interface {
	CreateUser(ctx context.Context, email, name string) (*User, error)
	ListUsers(ctx context.Context, ids []string, from, size int) ([]*User, error)
	DeleteUser(ctx context.Context, id string) error
}

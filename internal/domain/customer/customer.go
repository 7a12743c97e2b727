package customer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is the storefront profile of an authenticated user.
// Its id is the identity provider's user id.
type Customer struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is what the caller knows about the user from the access token
type Identity struct {
	UserID   uuid.UUID
	Username string
	FullName string
	Email    string
}

// NewCustomer creates a profile from an identity
func NewCustomer(id Identity) *Customer {
	now := time.Now()
	return &Customer{
		ID:        id.UserID,
		Username:  strings.TrimSpace(id.Username),
		FullName:  strings.TrimSpace(id.FullName),
		Email:     strings.TrimSpace(id.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DisplayName returns the full name, falling back to the username
func (c *Customer) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Username
}

// CustomerRepository persists customer profiles
type CustomerRepository interface {
	// Ensure returns the profile for the identity, creating it when absent. Safe to call concurrently.
	Ensure(ctx context.Context, id Identity) (*Customer, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
}

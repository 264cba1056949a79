package domain

import (
	"context"
	"errors"
	"time"
)

// ErrEmailTaken is returned by UserRepository.Create when the email is
// already registered.
var ErrEmailTaken = errors.New("email already registered")

// User represents an account on the remote API, or a local guest identity on
// a device. Guests never touch the remote API.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"displayName"`
	DailyCalorieGoal float64    `json:"dailyCalorieGoal,omitempty"`
	IsGuest          bool       `json:"isGuest,omitempty"`
	PasswordHash     string     `json:"-"`
	CreatedAt        time.Time  `json:"createdAt,omitzero"`
	UpdatedAt        time.Time  `json:"updatedAt,omitzero"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
}

// UserRepository defines the port for account persistence operations.
// Lookups return nil, nil when no user matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
}

package domain

import (
	"context"
	"time"
)

// AccessAuth is the purpose tag carried by login/registration tokens.
const AccessAuth = "auth"

// User represents a registered user of the application.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tokens       []Token
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token is one entry of a user's active token list.
type Token struct {
	Access string
	Token  string
}

// HasToken reports whether token is in the user's active list under access.
func (u *User) HasToken(access, token string) bool {
	for _, t := range u.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}
	return false
}

// UserRepository defines persistence operations for users and their tokens.
type UserRepository interface {
	// Create inserts the user together with its Tokens in one atomic write.
	// A preset ID is kept, otherwise one is assigned. Returns
	// ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByToken returns the user only if token is still present in their
	// active list under access. Returns ErrNotFound otherwise.
	GetByToken(ctx context.Context, id, access, token string) (*User, error)
	// AddToken appends a token to the user's active list.
	AddToken(ctx context.Context, userID string, token Token) error
	// RemoveToken removes a single token from the user's active list.
	// Removing a token that is not present is a no-op; ErrNotFound is
	// returned only when the user does not exist.
	RemoveToken(ctx context.Context, userID, token string) error
}

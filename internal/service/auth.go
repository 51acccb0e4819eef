package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/msomdec/todo-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 5

// AuthService handles user registration, login, logout and token
// authentication.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenService
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account and issues its first token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if len(password) < MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	// The first token is signed for a preset id and stored with the user.
	user := &domain.User{
		ID:           domain.NewID(),
		Email:        email,
		PasswordHash: string(hash),
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	user.Tokens = []domain.Token{{Access: domain.AccessAuth, Token: token}}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a new token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a token to its user. The signature must verify AND
// the exact token must still be in the user's active list with the "auth"
// purpose; otherwise domain.ErrUnauthorized is returned. Store failures are
// returned wrapped so callers can tell them apart.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !domain.ValidID(claims.UserID) {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByToken(ctx, claims.UserID, domain.AccessAuth, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	if !user.HasToken(domain.AccessAuth, token) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Logout revokes a single token of the user.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	if err := s.users.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	entry := domain.Token{Access: domain.AccessAuth, Token: token}
	if err := s.users.AddToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	// ParseAddress accepts "Name <addr>" and dotless hosts; neither is a
	// plain email address.
	addr, err := mail.ParseAddress(email)
	host := email[strings.LastIndex(email, "@")+1:]
	if err != nil || addr.Name != "" || addr.Address != email || !strings.Contains(host, ".") {
		return fmt.Errorf("%w: %s is not a valid email", domain.ErrInvalidInput, email)
	}
	return nil
}

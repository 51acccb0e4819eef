package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/oklog/ulid/v2"
)

// TokenClaims is the verified payload of a token.
type TokenClaims struct {
	UserID string
	Access string
}

type authClaims struct {
	UserID string `json:"_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens. Tokens carry no expiry:
// they stay valid until removed from the owner's active token list.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for userID with the "auth" purpose.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	jti, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := authClaims{
		UserID: userID,
		Access: domain.AccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       jti.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and shape of tokenString. Any failure is
// reported as domain.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (TokenClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	if claims.UserID == "" || claims.Access == "" {
		return TokenClaims{}, domain.ErrInvalidToken
	}

	return TokenClaims{UserID: claims.UserID, Access: claims.Access}, nil
}

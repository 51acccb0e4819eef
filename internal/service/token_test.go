package service_test

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

func TestTokenService_IssueVerify(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)
	userID := domain.NewID()

	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Access != domain.AccessAuth {
		t.Fatalf("expected access %q, got %q", domain.AccessAuth, claims.Access)
	}
}

func TestTokenService_ClaimShape(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)

	token, err := tokens.Issue("abc")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	for _, key := range []string{"_id", "access", "iat", "jti"} {
		if _, ok := claims[key]; !ok {
			t.Errorf("expected claim %q", key)
		}
	}
	if _, ok := claims["exp"]; ok {
		t.Error("tokens must not expire")
	}
}

func TestTokenService_DistinctTokens(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)
	userID := domain.NewID()

	seen := map[string]bool{}
	for range 5 {
		token, err := tokens.Issue(userID)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[token] {
			t.Fatal("expected every issued token to be distinct")
		}
		seen[token] = true
	}
}

func TestTokenService_VerifyRejects(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)
	secret := []byte(testJWTSecret)

	valid, err := tokens.Issue(domain.NewID())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	wrongSecret, err := service.NewTokenService("some-other-secret-some-other-secret").Issue(domain.NewID())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"_id":    domain.NewID(),
		"access": domain.AccessAuth,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"_id":    domain.NewID(),
		"access": domain.AccessAuth,
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"access": domain.AccessAuth,
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noAccess, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": domain.NewID(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := map[string]string{
		"empty":          "",
		"garbage":        "garbage",
		"three segments": "a.b.c",
		"truncated":      valid[:len(valid)-10],
		"wrong secret":   wrongSecret,
		"alg none":       unsigned,
		"other hmac alg": hs512,
		"missing _id":    noID,
		"missing access": noAccess,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			if !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

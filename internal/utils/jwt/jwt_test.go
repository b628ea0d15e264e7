package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCreateAndExtract(t *testing.T) {
	token, err := CreateToken("17", "secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	userID, err := ExtractUserIDFromToken(token, "secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if userID != "17" {
		t.Fatalf("Expected user 17, got %q", userID)
	}
}

func TestExtract_WrongSecret(t *testing.T) {
	token, _ := CreateToken("17", "secret")

	if _, err := ExtractUserIDFromToken(token, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestExtract_Expired(t *testing.T) {
	claims := Claims{
		UserID: "17",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := ExtractUserIDFromToken(token, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestExtract_Garbage(t *testing.T) {
	if _, err := ExtractUserIDFromToken("not.a.token", "secret"); err == nil {
		t.Fatal("Expected error for malformed token")
	}
}

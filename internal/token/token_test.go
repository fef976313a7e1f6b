package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager("test-secret")

	signed, err := m.Issue("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Validate(signed)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("Email = %q, want %q", claims.Email, "user@example.com")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a").Issue("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewManager("secret-b").Validate(signed); err != ErrInvalidToken {
		t.Fatalf("Validate error = %v, want ErrInvalidToken", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager("test-secret")

	claims := Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Validate(signed); err != ErrInvalidToken {
		t.Fatalf("Validate error = %v, want ErrInvalidToken", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	m := NewManager("test-secret")

	if _, err := m.Validate("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("Validate error = %v, want ErrInvalidToken", err)
	}
}

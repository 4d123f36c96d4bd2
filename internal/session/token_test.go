package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestRoleFromToken(t *testing.T) {
	token := signedToken(t, Claims{UserID: "u1", Role: "manager"})

	role, err := RoleFromToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != "manager" {
		t.Fatalf("expected manager, got %s", role)
	}
}

func TestRoleFromTokenMissingClaim(t *testing.T) {
	token := signedToken(t, Claims{UserID: "u1"})
	if _, err := RoleFromToken(token); err == nil {
		t.Fatal("expected error for missing role claim")
	}
}

func TestRoleFromTokenMalformed(t *testing.T) {
	if _, err := RoleFromToken("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

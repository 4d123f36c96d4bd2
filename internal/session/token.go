package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the token payload issued by the API.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeClaims parses the token payload WITHOUT verifying the signature.
// The result is a display hint only. Authorization decisions belong to the
// server; this exists so commands can be scoped by role before the profile
// fetch has completed.
func DecodeClaims(token string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RoleFromToken extracts the role claim, or an error if the token is
// malformed or carries no role.
func RoleFromToken(token string) (string, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", errors.New("token carries no role claim")
	}
	return claims.Role, nil
}

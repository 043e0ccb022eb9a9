package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

// Role is the caller's role claim. The set is closed; anything else is
// rejected at the verification boundary rather than downgraded to "user".
type Role string

const (
	RoleUser   Role = "user"
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrInvalidToken    = errors.New("invalid or expired access token")
	ErrUnsupportedRole = errors.New("unsupported role")
)

// User is the authenticated caller extracted from a bearer token.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Verifier validates HMAC-signed bearer tokens issued by the hosted auth
// provider. It is stateless and safe for concurrent use.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given shared HMAC secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the token's signature and expiry and extracts the caller
// identity. The role may live at the top level of the claims or nested under
// app_metadata. Returns ErrInvalidToken for signature/expiry problems and
// ErrUnsupportedRole when the role claim is outside the allowed set.
func (v *Verifier) Verify(tokenString string) (*User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	role := extractRole(claims)
	if !role.Valid() {
		return nil, ErrUnsupportedRole
	}

	email, _ := claims["email"].(string)

	return &User{
		ID:    sub,
		Email: email,
		Role:  role,
	}, nil
}

func extractRole(claims jwt.MapClaims) Role {
	if r, ok := claims["role"].(string); ok && r != "" {
		return Role(r)
	}
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if r, ok := meta["role"].(string); ok {
			return Role(r)
		}
	}
	return ""
}

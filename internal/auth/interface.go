package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the token claims the API relies on
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTVerifier validates bearer tokens.
// The middleware only depends on this interface so tests can supply a fake.
type JWTVerifier interface {
	// VerifyToken returns the parsed claims or domain.ErrUnauthorized
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases resources held by the verifier
	Close() error
}

package auth

import "github.com/dazedmind/legalynx-sub004/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware stays agnostic to where the signing keys come from.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.AuthClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

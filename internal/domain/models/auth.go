package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims represents the JWT claims issued by the identity provider.
// The subject claim is the owning account id used to scope every operation.
type AuthClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	SessionID            string `json:"session_id"`
}

// GetUserID returns the owner id from the JWT subject claim.
func (c *AuthClaims) GetUserID() string {
	return c.Subject
}

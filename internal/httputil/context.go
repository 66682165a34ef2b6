package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a request whose context carries the authenticated
// caller's user id.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves the caller's user id, or "" when unauthenticated.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

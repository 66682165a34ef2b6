package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxJSONBody caps JSON request bodies. File content travels as multipart,
// never as JSON, so a small cap is enough.
const maxJSONBody = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// BearerToken returns the raw bearer token from the Authorization header,
// or "" when absent.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

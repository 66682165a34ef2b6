package middleware

import (
	"net/http"
	"strings"

	"github.com/dazedmind/legalynx-sub004/internal/auth"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

// publicPaths are reachable without a bearer token.
var publicPaths = map[string]bool{
	"/health": true,
}

// AuthMiddleware validates the bearer token and stores the caller's user id
// in the request context.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

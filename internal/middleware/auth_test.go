package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

type stubVerifier struct {
	claims *models.AuthClaims
	err    error
}

func (v *stubVerifier) VerifyToken(token string) (*models.AuthClaims, error) {
	return v.claims, v.err
}

func (v *stubVerifier) Close() error { return nil }

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(httputil.GetUserID(r)))
	})
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: &models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Role:             "authenticated",
	}}
	handler := AuthMiddleware(verifier)(echoUserID())

	r := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	r.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := AuthMiddleware(&stubVerifier{})(echoUserID())

	r := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware(&stubVerifier{err: errors.New("expired")})(echoUserID())

	r := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareHealthIsPublic(t *testing.T) {
	handler := AuthMiddleware(&stubVerifier{err: errors.New("should not be called")})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	identity *Identity
	err      error
	seen     string
}

func (v *stubValidator) ValidateToken(tokenString string) (*Identity, error) {
	v.seen = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(&stubValidator{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	handler := Auth(&stubValidator{})(okHandler())

	for _, header := range []string{"token-without-scheme", "Basic abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	validator := &stubValidator{err: fmt.Errorf("expired")}
	handler := Auth(validator)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "bad-token", validator.seen)
}

func TestAuthStoresIdentity(t *testing.T) {
	want := &Identity{UserID: uuid.New(), Role: "student"}
	validator := &stubValidator{identity: want}

	var got *Identity
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetIdentity(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "bearer good-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, want, got)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("recruiter")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: "student"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: "recruiter"}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Admins pass role checks.
	req = httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: "student", IsAdmin: true}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: "recruiter"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: uuid.New(), Role: "student", IsAdmin: true}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// No identity at all.
	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

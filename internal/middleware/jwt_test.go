package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todostock/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-bytes-32!"

func signToken(t *testing.T, secret string, claims JWTCustomClaims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(sub string) JWTCustomClaims {
	return JWTCustomClaims{
		Email: "ana@todostock.cl",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newProtectedServer(mw echo.MiddlewareFunc, called *bool) *echo.Echo {
	e := echo.New()
	e.GET("/api/productos", func(c echo.Context) error {
		*called = true
		userID, _ := common.GetUserIDFromContext(c.Request().Context())
		email, _ := common.GetUserEmailFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"user_id": userID.String(), "email": email})
	}, mw)
	return e
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	called := false
	e := newProtectedServer(JWTMiddleware(nil, testSecret), &called)

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	called := false
	e := newProtectedServer(JWTMiddleware(nil, testSecret), &called)
	sub := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, testSecret, validClaims(sub.String()), ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Contains(t, rec.Body.String(), sub.String())
	assert.Contains(t, rec.Body.String(), "ana@todostock.cl")
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	called := false
	e := newProtectedServer(JWTMiddleware(nil, testSecret), &called)

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "another-secret-another-secret-000", validClaims(uuid.NewString()), ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	called := false
	e := newProtectedServer(JWTMiddleware(nil, testSecret), &called)
	claims := validClaims(uuid.NewString())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, testSecret, claims, ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_NonUUIDSubject(t *testing.T) {
	called := false
	e := newProtectedServer(JWTMiddleware(nil, testSecret), &called)

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, testSecret, validClaims("not-a-uuid"), ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_GivenKeySet(t *testing.T) {
	jwks := keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		"todostock-test": keyfunc.NewGivenHMAC([]byte(testSecret), keyfunc.GivenKeyOptions{Algorithm: jwt.SigningMethodHS256.Alg()}),
	})
	called := false
	e := newProtectedServer(JWTMiddleware(jwks.Keyfunc, ""), &called)

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, testSecret, validClaims(uuid.NewString()), "todostock-test"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

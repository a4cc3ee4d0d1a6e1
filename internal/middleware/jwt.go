package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"todostock/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "user"

// JWTCustomClaims are the claims issued by the identity provider
type JWTCustomClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// LoadJWKS fetches the identity provider's signing keys and keeps them
// refreshed in the background. Call EndBackground on shutdown.
func LoadJWKS(jwksURL string) (*keyfunc.JWKS, error) {
	return keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("WARN: JWKS refresh failed: %v", err)
		},
	})
}

// JWTMiddleware verifies the bearer token on protected routes. Tokens are
// checked with keyFunc when it is set (JWKS), otherwise with the HMAC secret.
// A request that fails verification is answered 401 before its handler runs.
func JWTMiddleware(keyFunc jwt.Keyfunc, secret string) echo.MiddlewareFunc {
	config := echojwt.Config{
		ContextKey: tokenContextKey,
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions
		},
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	}
	if keyFunc != nil {
		config.KeyFunc = keyFunc
	} else {
		config.SigningKey = []byte(secret)
	}

	verify := echojwt.WithConfig(config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(withIdentity(next))
	}
}

// withIdentity copies the verified subject and email into the request context
func withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method == http.MethodOptions {
			return next(c)
		}

		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}
		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject in token")
		}

		ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
		if claims.Email != "" {
			ctx = context.WithValue(ctx, common.UserEmailKey, claims.Email)
		}
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

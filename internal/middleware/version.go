package middleware

import "github.com/labstack/echo/v4"

const APIVersionHeader = "X-API-Version"

// VersionHeader stamps every response with the running backend version
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(APIVersionHeader, version)
			return next(c)
		}
	}
}

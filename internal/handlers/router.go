package handlers

import (
	_ "todostock/docs"
	"todostock/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// ErrorResponse is the body of every handler error
type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	Auth      *AuthHandlers
	Customers *CustomerHandlers
	Products  *ProductHandlers
	Sales     *SaleHandlers
	Analytics *AnalyticsHandlers
	Health    *HealthHandlers
}

// NewServer returns the echo instance the routes are mounted on. RealIP only
// honours X-Forwarded-For entries added by proxies on loopback or private
// networks, so clients cannot pick their own login rate-limit key.
func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = echo.ExtractIPFromXFFHeader()
	return e
}

// RegisterRoutes mounts every route. auth guards each data route on its own;
// the banner, health, swagger and login routes stay public. Writes are audited.
func RegisterRoutes(e *echo.Echo, h *Handlers, auth echo.MiddlewareFunc) {
	audit := middleware.NewAuditMiddleware(nil).AuditWrites()

	e.GET("/", h.Health.Banner)
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.POST("/login", h.Auth.Login)
	api.GET("/me", h.Auth.Me, auth)

	api.GET("/clientes", h.Customers.ListCustomers, auth)
	api.POST("/clientes", h.Customers.CreateCustomer, auth, audit)

	api.GET("/productos", h.Products.ListProducts, auth)
	api.POST("/productos", h.Products.CreateProduct, auth, audit)
	api.PUT("/productos/:id", h.Products.UpdateProduct, auth, audit)
	api.GET("/productos/:id/stock", h.Products.GetStock, auth)

	api.GET("/ventas", h.Sales.ListSales, auth)
	api.POST("/ventas", h.Sales.CreateSale, auth, audit)
	api.GET("/ventas/:id", h.Sales.GetSale, auth)
	api.GET("/ventas/:id/pdf", h.Sales.SaleReceipt, auth)
	api.DELETE("/ventas/:id", h.Sales.DeleteSale, auth, audit)

	api.GET("/analisis/ventas_mensuales", h.Analytics.MonthlySales, auth)
	api.GET("/analisis/libro_ventas", h.Analytics.SalesJournal, auth)
	api.GET("/analisis/libro_ventas/export", h.Analytics.ExportSalesJournal, auth)
}

package handlers

import (
	"net/http"

	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

type createCustomerRequest struct {
	Nombre    string `json:"nombre"`
	Rut       string `json:"rut"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

// ListCustomers handles GET /api/clientes
//
//	@Summary	List customers ordered by nombre
//	@Tags		clientes
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Customer
//	@Failure	401	{object}	ErrorResponse
//	@Router		/clientes [get]
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	customers, err := h.customerService.ListCustomers(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// CreateCustomer handles POST /api/clientes
//
//	@Summary	Create a customer
//	@Tags		clientes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Success	201	{object}	models.Customer
//	@Failure	400	{object}	ErrorResponse
//	@Router		/clientes [post]
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "invalid request body")
	}

	customer := &models.Customer{
		Nombre:    req.Nombre,
		Rut:       req.Rut,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	}
	if err := h.customerService.CreateCustomer(c.Request().Context(), customer); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

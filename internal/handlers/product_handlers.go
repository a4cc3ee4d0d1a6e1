package handlers

import (
	"net/http"

	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type createProductRequest struct {
	Codigo         string `json:"codigo"`
	NombreProducto string `json:"nombre_producto"`
	Stock          int    `json:"stock"`
}

// ListProducts handles GET /api/productos
//
//	@Summary	List products ordered by nombre_producto
//	@Tags		productos
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Product
//	@Failure	401	{object}	ErrorResponse
//	@Router		/productos [get]
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/productos
//
//	@Summary	Create a product
//	@Tags		productos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Success	201	{object}	models.Product
//	@Failure	400	{object}	ErrorResponse
//	@Router		/productos [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "invalid request body")
	}

	product := &models.Product{
		Codigo:         req.Codigo,
		NombreProducto: req.NombreProducto,
		Stock:          req.Stock,
	}
	if err := h.productService.CreateProduct(c.Request().Context(), product); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/productos/:id. Only the fields present in
// the body are changed.
//
//	@Summary	Update a product
//	@Tags		productos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/productos/{id} [put]
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := common.ValidateID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var patch models.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return common.SendValidationError(c, "invalid request body")
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, &patch)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetStock handles GET /api/productos/:id/stock
func (h *ProductHandlers) GetStock(c echo.Context) error {
	id, err := common.ValidateID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	stock, err := h.productService.GetStock(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"producto_id": id,
		"stock":       stock,
	})
}

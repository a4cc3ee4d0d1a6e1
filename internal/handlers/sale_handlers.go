package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/services"

	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader lets clients retry POST /api/ventas without recording the sale twice
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// SaleHandlers handles HTTP requests for sales
type SaleHandlers struct {
	saleService services.SaleService
	location    *time.Location
}

// NewSaleHandlers creates a new sale handlers instance. Plain dates in
// requests are read in location.
func NewSaleHandlers(saleService services.SaleService, location *time.Location) *SaleHandlers {
	if location == nil {
		location = time.UTC
	}
	return &SaleHandlers{saleService: saleService, location: location}
}

// CreateSaleRequest is the body of POST /api/ventas
type CreateSaleRequest struct {
	ClienteID      int64                  `json:"cliente_id"`
	EsAfectaIVA    *bool                  `json:"es_afecta_iva"`
	CantidadBultos *int                   `json:"cantidad_bultos"`
	Fecha          string                 `json:"fecha"`
	Detalles       []models.SaleItemInput `json:"detalles"`
}

// CreateSale handles POST /api/ventas
//
//	@Summary		Record a sale
//	@Description	Decrements stock for every line and records the sale in one transaction.
//	@Description	A repeated Idempotency-Key returns the original sale with 200.
//	@Tags			ventas
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string				false	"Client generated key"
//	@Param			body			body		CreateSaleRequest	true	"Sale"
//	@Success		201				{object}	models.Sale
//	@Success		200				{object}	models.Sale
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/ventas [post]
func (h *SaleHandlers) CreateSale(c echo.Context) error {
	var req CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "invalid request body")
	}

	fecha, err := common.ParseFecha(req.Fecha, h.location)
	if err != nil {
		return common.SendError(c, err)
	}

	input := &models.SaleInput{
		ClienteID:      req.ClienteID,
		EsAfectaIVA:    req.EsAfectaIVA,
		CantidadBultos: 1,
		Fecha:          fecha,
		Detalles:       req.Detalles,
	}
	if req.CantidadBultos != nil {
		input.CantidadBultos = *req.CantidadBultos
	}
	if key := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader)); key != "" {
		if len(key) > maxIdempotencyKeyLength {
			return common.SendValidationError(c, fmt.Sprintf("%s must be at most %d characters", IdempotencyKeyHeader, maxIdempotencyKeyLength))
		}
		input.IdempotencyKey = &key
	}

	sale, created, err := h.saleService.CreateSale(c.Request().Context(), input)
	if err != nil {
		return common.SendError(c, err)
	}
	if !created {
		return c.JSON(http.StatusOK, sale)
	}
	return c.JSON(http.StatusCreated, sale)
}

// ListSales handles GET /api/ventas
//
//	@Summary	List sales with their customer, newest first
//	@Tags		ventas
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Sale
//	@Failure	401	{object}	ErrorResponse
//	@Router		/ventas [get]
func (h *SaleHandlers) ListSales(c echo.Context) error {
	sales, err := h.saleService.ListSales(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// GetSale handles GET /api/ventas/:id
func (h *SaleHandlers) GetSale(c echo.Context) error {
	id, err := common.ValidateID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	sale, err := h.saleService.GetSale(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// DeleteSale handles DELETE /api/ventas/:id. Stock is not restored.
//
//	@Summary	Delete a sale and its lines
//	@Tags		ventas
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Sale ID"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	ErrorResponse
//	@Router		/ventas/{id} [delete]
func (h *SaleHandlers) DeleteSale(c echo.Context) error {
	id, err := common.ValidateID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.saleService.DeleteSale(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Venta %d eliminada correctamente", id),
	})
}

// SaleReceipt handles GET /api/ventas/:id/pdf
func (h *SaleHandlers) SaleReceipt(c echo.Context) error {
	id, err := common.ValidateID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	sale, err := h.saleService.GetSale(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}

	pdfBytes, err := renderSaleReceipt(sale, h.location)
	if err != nil {
		return common.SendError(c, fmt.Errorf("failed to render receipt: %w", err))
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=venta-%d.pdf", sale.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

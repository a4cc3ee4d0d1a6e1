package handlers

import (
	"net/http"

	"todostock/internal/analytics"
	"todostock/internal/common"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandlers struct {
	reportService analytics.ReportService
}

func NewAnalyticsHandlers(reportService analytics.ReportService) *AnalyticsHandlers {
	return &AnalyticsHandlers{reportService: reportService}
}

// MonthlySales handles GET /api/analisis/ventas_mensuales
//
//	@Summary		Sales totals per month
//	@Description	Pairs of [YYYY-MM, total], oldest month first
//	@Tags			analisis
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		models.MonthlyTotal
//	@Failure		401	{object}	ErrorResponse
//	@Router			/analisis/ventas_mensuales [get]
func (h *AnalyticsHandlers) MonthlySales(c echo.Context) error {
	totals, err := h.reportService.MonthlySalesTotals(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, totals)
}

// SalesJournal handles GET /api/analisis/libro_ventas
//
//	@Summary	Sales journal, one row per line item, newest first
//	@Tags		analisis
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.JournalEntry
//	@Failure	401	{object}	ErrorResponse
//	@Router		/analisis/libro_ventas [get]
func (h *AnalyticsHandlers) SalesJournal(c echo.Context) error {
	entries, err := h.reportService.SalesJournal(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ExportSalesJournal handles GET /api/analisis/libro_ventas/export
func (h *AnalyticsHandlers) ExportSalesJournal(c echo.Context) error {
	export, err := h.reportService.ExportSalesJournal(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, export)
}

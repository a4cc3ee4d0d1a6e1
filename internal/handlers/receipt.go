package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"todostock/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// renderSaleReceipt lays out a one page boleta for a sale
func renderSaleReceipt(sale *models.Sale, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "TODOSTOCK SPA")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Venta N° %d", sale.ID)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Fecha: %s", sale.Fecha.In(loc).Format("02-01-2006 15:04")))
	pdf.Ln(6)
	if sale.Cliente != nil {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Cliente: %s", sale.Cliente.Nombre)))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("RUT: %s", sale.Cliente.Rut))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Bultos: %d", sale.CantidadBultos))
	pdf.Ln(6)
	afecta := "No"
	if sale.EsAfectaIVA {
		afecta = tr("Sí")
	}
	pdf.Cell(0, 6, fmt.Sprintf("Afecta IVA: %s", afecta))
	pdf.Ln(10)

	headers := []string{"Producto", "Cantidad", "Precio unitario", "Subtotal"}
	colWidths := []float64{50, 30, 45, 45}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range sale.Detalles {
		subtotal := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		pdf.CellFormat(colWidths[0], 8, "#"+strconv.FormatInt(item.ProductoID, 10), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, strconv.Itoa(item.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, item.PrecioUnitario.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2], 10, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colWidths[3], 10, sale.Total.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generado %s", time.Now().In(loc).Format("02-01-2006 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

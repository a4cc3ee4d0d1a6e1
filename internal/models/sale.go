package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// money goes out as a JSON number: 150.5, not "150.5"
	decimal.MarshalJSONWithoutQuotes = true
}

type Sale struct {
	ID             int64           `json:"id" db:"id"`
	ClienteID      int64           `json:"cliente_id" db:"cliente_id"`
	EsAfectaIVA    bool            `json:"es_afecta_iva" db:"es_afecta_iva"`
	CantidadBultos int             `json:"cantidad_bultos" db:"cantidad_bultos"`
	Total          decimal.Decimal `json:"total" db:"total"`
	Fecha          time.Time       `json:"fecha" db:"fecha"`
	IdempotencyKey *string         `json:"-" db:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	Detalles       []*SaleItem     `json:"detalles,omitempty"`
	Cliente        *CustomerRef    `json:"cliente,omitempty"`
}

// SaleItem is one line of a sale. Price is captured at the time of sale.
type SaleItem struct {
	ID             int64           `json:"id" db:"id"`
	VentaID        int64           `json:"venta_id" db:"venta_id"`
	ProductoID     int64           `json:"producto_id" db:"producto_id"`
	Cantidad       int             `json:"cantidad" db:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" db:"precio_unitario"`
}

// CustomerRef is the customer snapshot embedded in sale listings and the journal
type CustomerRef struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
}

// ProductRef is the product snapshot embedded in the journal
type ProductRef struct {
	ID             int64  `json:"id"`
	Codigo         string `json:"codigo"`
	NombreProducto string `json:"nombre_producto"`
}

// SaleItemInput is one requested line of a new sale. PrecioUnitario is nil
// when the client left it out.
type SaleItemInput struct {
	ProductoID     int64            `json:"producto_id"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

// SaleInput carries everything needed to record a sale
type SaleInput struct {
	ClienteID      int64
	EsAfectaIVA    *bool
	CantidadBultos int
	Fecha          *time.Time
	Detalles       []SaleItemInput
	IdempotencyKey *string
}

// LineTotal returns cantidad * precio_unitario
func (i SaleItemInput) LineTotal() decimal.Decimal {
	if i.PrecioUnitario == nil {
		return decimal.Zero
	}
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// SaleTotal sums the line totals of the given items with exact decimal arithmetic.
func SaleTotal(items []SaleItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

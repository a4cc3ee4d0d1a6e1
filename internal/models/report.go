package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleSummary is the minimal projection of a sale used for aggregation
type SaleSummary struct {
	Fecha time.Time       `json:"fecha"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyTotal is the sum of sale totals for one calendar month (key YYYY-MM).
// It serializes as a two element array: ["2024-01", 150.5].
type MonthlyTotal struct {
	Month string
	Total decimal.Decimal
}

func (m MonthlyTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{m.Month, m.Total})
}

func (m *MonthlyTotal) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("monthly total: expected [month, total], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &m.Month); err != nil {
		return err
	}
	return m.Total.UnmarshalJSON(pair[1])
}

// JournalEntry is one flattened line of the sales journal (libro de ventas)
type JournalEntry struct {
	VentaID        int64           `json:"venta_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Fecha          time.Time       `json:"fecha"`
	EsAfectaIVA    bool            `json:"es_afecta_iva"`
	Producto       ProductRef      `json:"producto"`
	Cliente        CustomerRef     `json:"cliente"`
}

// JournalExport describes an uploaded journal CSV
type JournalExport struct {
	ObjectName string    `json:"object_name"`
	URL        string    `json:"url"`
	Rows       int       `json:"rows"`
	ExpiresAt  time.Time `json:"expires_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SaleCreatedEvent = "sale.created"
	SaleDeletedEvent = "sale.deleted"
)

// SaleEvent is published after a sale is committed or deleted
type SaleEvent struct {
	Type       string          `json:"type"`
	SaleID     int64           `json:"sale_id"`
	ClienteID  int64           `json:"cliente_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Items      int             `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

package models

import "time"

type Product struct {
	ID             int64     `json:"id" db:"id"`
	Codigo         string    `json:"codigo" db:"codigo"`
	NombreProducto string    `json:"nombre_producto" db:"nombre_producto"`
	Stock          int       `json:"stock" db:"stock"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ProductPatch holds the fields of a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Codigo         *string `json:"codigo,omitempty"`
	NombreProducto *string `json:"nombre_producto,omitempty"`
	Stock          *int    `json:"stock,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p *ProductPatch) IsEmpty() bool {
	return p.Codigo == nil && p.NombreProducto == nil && p.Stock == nil
}

// LowStockProduct is a product at or below the alert threshold
type LowStockProduct struct {
	ID             int64  `json:"id"`
	Codigo         string `json:"codigo"`
	NombreProducto string `json:"nombre_producto"`
	Stock          int    `json:"stock"`
}

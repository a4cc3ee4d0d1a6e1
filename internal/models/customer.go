package models

import "time"

// Customer is a buyer referenced by sales. Rows are immutable once a sale points at them.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	Rut       string    `json:"rut" db:"rut"`
	Direccion string    `json:"direccion" db:"direccion"`
	Telefono  string    `json:"telefono" db:"telefono"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

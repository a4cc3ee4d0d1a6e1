package repositories

import (
	"context"

	"todostock/internal/models"
)

type ReportRepository interface {
	SaleSummaries(ctx context.Context) ([]models.SaleSummary, error)
	Journal(ctx context.Context) ([]*models.JournalEntry, error)
}

type reportRepo struct {
	db Database
}

func NewReportRepo(db Database) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) SaleSummaries(ctx context.Context) ([]models.SaleSummary, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT fecha, total FROM ventas`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.SaleSummary
	for rows.Next() {
		var s models.SaleSummary
		if err := rows.Scan(&s.Fecha, &s.Total); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Journal flattens every line item with its sale, product and customer.
// The inner joins drop sales that have no line items.
func (r *reportRepo) Journal(ctx context.Context) ([]*models.JournalEntry, error) {
	query := `
		SELECT d.venta_id, d.cantidad, d.precio_unitario, v.fecha, v.es_afecta_iva,
			p.id, p.codigo, p.nombre_producto,
			c.id, c.nombre, c.rut
		FROM detalle_ventas d
		INNER JOIN ventas v ON v.id = d.venta_id
		INNER JOIN productos p ON p.id = d.producto_id
		INNER JOIN clientes c ON c.id = v.cliente_id
		ORDER BY v.fecha DESC, d.venta_id DESC, d.id
	`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		e := &models.JournalEntry{}
		if err := rows.Scan(
			&e.VentaID, &e.Cantidad, &e.PrecioUnitario, &e.Fecha, &e.EsAfectaIVA,
			&e.Producto.ID, &e.Producto.Codigo, &e.Producto.NombreProducto,
			&e.Cliente.ID, &e.Cliente.Nombre, &e.Cliente.Rut,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

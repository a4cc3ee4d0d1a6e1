package repositories

import (
	"context"
	"errors"

	"todostock/internal/common"
	"todostock/internal/models"

	"github.com/jackc/pgx/v5"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
	CreateItem(ctx context.Context, item *models.SaleItem) error
	GetByID(ctx context.Context, id int64) (*models.Sale, error)
	GetIDByIdempotencyKey(ctx context.Context, key string) (int64, error)
	List(ctx context.Context) ([]*models.Sale, error)
	Delete(ctx context.Context, id int64) error
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

// Create inserts the sale header. A nil Fecha lets the database stamp NOW().
func (r *saleRepo) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO ventas (cliente_id, es_afecta_iva, cantidad_bultos, total, fecha, idempotency_key)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), $6)
		RETURNING id, fecha, created_at
	`
	var fecha interface{}
	if !sale.Fecha.IsZero() {
		fecha = sale.Fecha
	}
	err := conn(ctx, r.db).QueryRow(ctx, query,
		sale.ClienteID, sale.EsAfectaIVA, sale.CantidadBultos, sale.Total, fecha, sale.IdempotencyKey,
	).Scan(&sale.ID, &sale.Fecha, &sale.CreatedAt)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return common.NewNotFoundError("customer %d not found", sale.ClienteID)
	}
	return err
}

func (r *saleRepo) CreateItem(ctx context.Context, item *models.SaleItem) error {
	query := `
		INSERT INTO detalle_ventas (venta_id, producto_id, cantidad, precio_unitario)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, item.VentaID, item.ProductoID, item.Cantidad, item.PrecioUnitario).
		Scan(&item.ID)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return common.NewNotFoundError("product %d not found", item.ProductoID)
	}
	return err
}

func (r *saleRepo) GetByID(ctx context.Context, id int64) (*models.Sale, error) {
	db := conn(ctx, r.db)

	query := `
		SELECT v.id, v.cliente_id, v.es_afecta_iva, v.cantidad_bultos, v.total, v.fecha, v.created_at,
			c.nombre, c.rut
		FROM ventas v
		JOIN clientes c ON c.id = v.cliente_id
		WHERE v.id = $1
	`
	sale := &models.Sale{Cliente: &models.CustomerRef{}}
	err := db.QueryRow(ctx, query, id).Scan(
		&sale.ID, &sale.ClienteID, &sale.EsAfectaIVA, &sale.CantidadBultos, &sale.Total, &sale.Fecha, &sale.CreatedAt,
		&sale.Cliente.Nombre, &sale.Cliente.Rut,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("sale %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	sale.Cliente.ID = sale.ClienteID

	items, err := r.listItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	sale.Detalles = items
	return sale, nil
}

func (r *saleRepo) listItems(ctx context.Context, db Database, saleID int64) ([]*models.SaleItem, error) {
	query := `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario
		FROM detalle_ventas
		WHERE venta_id = $1
		ORDER BY id
	`
	rows, err := db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.SaleItem{}
	for rows.Next() {
		item := &models.SaleItem{}
		if err := rows.Scan(&item.ID, &item.VentaID, &item.ProductoID, &item.Cantidad, &item.PrecioUnitario); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetIDByIdempotencyKey returns the sale recorded under key, or a not found error
func (r *saleRepo) GetIDByIdempotencyKey(ctx context.Context, key string) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id FROM ventas WHERE idempotency_key = $1`, key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.NewNotFoundError("no sale for idempotency key")
	}
	return id, err
}

// List returns every sale with its customer, newest first
func (r *saleRepo) List(ctx context.Context) ([]*models.Sale, error) {
	query := `
		SELECT v.id, v.cliente_id, v.es_afecta_iva, v.cantidad_bultos, v.total, v.fecha, v.created_at,
			c.nombre, c.rut
		FROM ventas v
		JOIN clientes c ON c.id = v.cliente_id
		ORDER BY v.fecha DESC, v.id DESC
	`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []*models.Sale{}
	for rows.Next() {
		s := &models.Sale{Cliente: &models.CustomerRef{}}
		if err := rows.Scan(
			&s.ID, &s.ClienteID, &s.EsAfectaIVA, &s.CantidadBultos, &s.Total, &s.Fecha, &s.CreatedAt,
			&s.Cliente.Nombre, &s.Cliente.Rut,
		); err != nil {
			return nil, err
		}
		s.Cliente.ID = s.ClienteID
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// Delete removes the sale; its line items go with it through ON DELETE CASCADE.
// Stock is not restored.
func (r *saleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("sale %d not found", id)
	}
	return nil
}

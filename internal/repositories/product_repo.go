package repositories

import (
	"context"
	"errors"

	"todostock/internal/common"
	"todostock/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, patch *models.ProductPatch) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	GetStock(ctx context.Context, id int64) (int, error)
	AdjustStock(ctx context.Context, id int64, delta, floor int) (int, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, codigo, nombre_producto, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Codigo, &p.NombreProducto, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO productos (codigo, nombre_producto, stock)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, product.Codigo, product.NombreProducto, product.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return translateProductError(err, product.Codigo)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1`
	product, err := scanProduct(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("product %d not found", id)
	}
	return product, err
}

// Update applies a partial patch. Concurrent updates are last-write-wins;
// stock sold between a read and this write is overwritten.
func (r *productRepo) Update(ctx context.Context, id int64, patch *models.ProductPatch) (*models.Product, error) {
	query := `
		UPDATE productos
		SET codigo = COALESCE($2, codigo),
			nombre_producto = COALESCE($3, nombre_producto),
			stock = COALESCE($4, stock),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	product, err := scanProduct(conn(ctx, r.db).QueryRow(ctx, query, id, patch.Codigo, patch.NombreProducto, patch.Stock))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("product %d not found", id)
	}
	if err != nil {
		return nil, translateProductError(err, common.SafeString(patch.Codigo))
	}
	return product, nil
}

func (r *productRepo) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos ORDER BY nombre_producto, id`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) GetStock(ctx context.Context, id int64) (int, error) {
	var stock int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT stock FROM productos WHERE id = $1`, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.NewNotFoundError("product %d not found", id)
	}
	return stock, err
}

// AdjustStock adds delta to the product's stock in one conditional statement,
// refusing any change that would leave stock below floor. Concurrent callers
// serialize on the row lock, so two sales can never both pass the check on the
// same units. When ctx carries a transaction the change joins it.
func (r *productRepo) AdjustStock(ctx context.Context, id int64, delta, floor int) (int, error) {
	db := conn(ctx, r.db)

	query := `
		UPDATE productos
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= $3
		RETURNING stock
	`
	var stock int
	err := db.QueryRow(ctx, query, delta, id, floor).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM productos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, common.NewNotFoundError("product %d not found", id)
	}
	return 0, common.NewInsufficientStockError("insufficient stock for product %d", id)
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error) {
	query := `
		SELECT id, codigo, nombre_producto, stock
		FROM productos
		WHERE stock <= $1
		ORDER BY stock, nombre_producto
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.LowStockProduct
	for rows.Next() {
		p := &models.LowStockProduct{}
		if err := rows.Scan(&p.ID, &p.Codigo, &p.NombreProducto, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func translateProductError(err error, codigo string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return common.NewValidationError("product with codigo %q already exists", codigo)
	case pgCheckViolation:
		return common.NewValidationError("stock cannot be negative")
	}
	return err
}

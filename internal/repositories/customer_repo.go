package repositories

import (
	"context"

	"todostock/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context) ([]*models.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type customerRepo struct {
	db Database
}

func NewCustomerRepo(db Database) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO clientes (nombre, rut, direccion, telefono)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRow(ctx, query, customer.Nombre, customer.Rut, customer.Direccion, customer.Telefono).
		Scan(&customer.ID, &customer.CreatedAt)
}

func (r *customerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT id, nombre, rut, direccion, telefono, created_at
		FROM clientes
		ORDER BY nombre, id
	`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Rut, &c.Direccion, &c.Telefono, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clientes WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

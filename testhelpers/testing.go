package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"todostock/internal/models"
	"todostock/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and empties
// every table. The test is skipped when the variable is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	if err := database.RunMigrations(connString); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE detalle_ventas, ventas, productos, clientes RESTART IDENTITY CASCADE`); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// SetupTestCustomer creates a test customer for testing
func SetupTestCustomer(t *testing.T, db *TestDB) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Nombre:    "Cliente de Prueba",
		Rut:       "11.111.111-1",
		Direccion: "Av. Siempre Viva 742",
		Telefono:  "+56 9 1234 5678",
	}
	query := `
		INSERT INTO clientes (nombre, rut, direccion, telefono)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		customer.Nombre, customer.Rut, customer.Direccion, customer.Telefono,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	return customer
}

// SetupTestProduct creates a test product with the given stock
func SetupTestProduct(t *testing.T, db *TestDB, codigo string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Codigo:         codigo,
		NombreProducto: fmt.Sprintf("Producto %s", codigo),
		Stock:          stock,
	}
	query := `
		INSERT INTO productos (codigo, nombre_producto, stock)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, product.Codigo, product.NombreProducto, product.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// StockOf reads a product's current stock straight from the table
func StockOf(t *testing.T, db *TestDB, productID int64) int {
	t.Helper()

	var stock int
	if err := db.Pool.QueryRow(context.Background(), `SELECT stock FROM productos WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	return stock
}

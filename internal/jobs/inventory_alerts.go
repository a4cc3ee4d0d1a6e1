package jobs

import (
	"context"
	"log"

	"todostock/internal/models"
)

// LowStockLister is the slice of the product repository the alert job needs
type LowStockLister interface {
	ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error)
}

type InventoryAlertService struct {
	productRepo LowStockLister
}

type InventoryAlert struct {
	ProductID    int64
	Codigo       string
	ProductName  string
	CurrentStock int
	Threshold    int
}

func NewInventoryAlertService(productRepo LowStockLister) *InventoryAlertService {
	return &InventoryAlertService{productRepo: productRepo}
}

// CheckLowStock returns an alert for every product at or below threshold
func (a *InventoryAlertService) CheckLowStock(ctx context.Context, threshold int) ([]InventoryAlert, error) {
	if threshold < 0 {
		threshold = 0
	}

	products, err := a.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		log.Printf("Failed to list low stock products: %v", err)
		return nil, err
	}

	alerts := make([]InventoryAlert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, InventoryAlert{
			ProductID:    p.ID,
			Codigo:       p.Codigo,
			ProductName:  p.NombreProducto,
			CurrentStock: p.Stock,
			Threshold:    threshold,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(alerts []InventoryAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("ALERT: %d products with low stock:", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Product '%s' (%s) has %d units (threshold: %d)",
			alert.ProductName,
			alert.Codigo,
			alert.CurrentStock,
			alert.Threshold,
		)
	}
}

// Run checks and logs in one pass; it is the scheduled task body
func (a *InventoryAlertService) Run(ctx context.Context, threshold int) error {
	alerts, err := a.CheckLowStock(ctx, threshold)
	if err != nil {
		return err
	}
	a.LogLowStockAlerts(alerts)
	return nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"todostock/internal/caching"
	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/repositories"
	"todostock/pkg/retry"
)

type ProductService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch *models.ProductPatch) (*models.Product, error)
	GetStock(ctx context.Context, id int64) (int, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
	readRetries int
}

func NewProductService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService, readRetries int) ProductService {
	return &productService{
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
		readRetries: readRetries,
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Codigo = strings.TrimSpace(product.Codigo)
	product.NombreProducto = strings.TrimSpace(product.NombreProducto)

	if err := common.ValidateRequiredString(product.Codigo, "codigo"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(product.NombreProducto, "nombre_producto"); err != nil {
		return err
	}
	if product.Stock < 0 {
		return common.NewValidationError("stock cannot be negative")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		products, err = s.productRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies a partial patch. There is no version check, so a
// concurrent sale between the client's read and this write can be overwritten.
func (s *productService) UpdateProduct(ctx context.Context, id int64, patch *models.ProductPatch) (*models.Product, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, common.NewValidationError("no fields to update")
	}
	if patch.Codigo != nil {
		trimmed := strings.TrimSpace(*patch.Codigo)
		if trimmed == "" {
			return nil, common.NewValidationError("codigo cannot be empty")
		}
		patch.Codigo = &trimmed
	}
	if patch.NombreProducto != nil {
		trimmed := strings.TrimSpace(*patch.NombreProducto)
		if trimmed == "" {
			return nil, common.NewValidationError("nombre_producto cannot be empty")
		}
		patch.NombreProducto = &trimmed
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, common.NewValidationError("stock cannot be negative")
	}

	product, err := s.productRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// journal rows embed codigo and nombre_producto
	if patch.Codigo != nil || patch.NombreProducto != nil {
		invalidateReports(ctx, s.cacheSvc)
	}
	return product, nil
}

func (s *productService) GetStock(ctx context.Context, id int64) (int, error) {
	var stock int
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		stock, err = s.productRepo.GetStock(ctx, id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get stock: %w", err)
	}
	return stock, nil
}

func invalidateReports(ctx context.Context, cacheSvc caching.CacheService) {
	if cacheSvc == nil {
		return
	}
	if err := cacheSvc.InvalidateReports(ctx); err != nil {
		log.Printf("WARN: failed to invalidate report cache: %v", err)
	}
}

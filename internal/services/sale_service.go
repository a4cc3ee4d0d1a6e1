package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"todostock/internal/caching"
	"todostock/internal/common"
	"todostock/internal/events"
	"todostock/internal/models"
	"todostock/internal/repositories"
	"todostock/pkg/retry"
	"todostock/pkg/tr"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const eventPublishTimeout = 5 * time.Second

// numeric(14,2) columns hold at most 999999999999.99
var maxMoney = decimal.New(1, 12)

type SaleService interface {
	// CreateSale records a sale and decrements stock atomically. The boolean is
	// false when an earlier sale with the same idempotency key is returned instead.
	CreateSale(ctx context.Context, input *models.SaleInput) (*models.Sale, bool, error)
	GetSale(ctx context.Context, id int64) (*models.Sale, error)
	ListSales(ctx context.Context) ([]*models.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
}

type saleService struct {
	db           transaction.Transactional
	saleRepo     repositories.SaleRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	cacheSvc     caching.CacheService
	publisher    events.Publisher
	readRetries  int
}

func NewSaleService(
	db transaction.Transactional,
	saleRepo repositories.SaleRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	cacheSvc caching.CacheService,
	publisher events.Publisher,
	readRetries int,
) SaleService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &saleService{
		db:           db,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		cacheSvc:     cacheSvc,
		publisher:    publisher,
		readRetries:  readRetries,
	}
}

// ValidateSaleInput checks a sale request before anything is written
func ValidateSaleInput(input *models.SaleInput) error {
	if input == nil {
		return common.NewValidationError("sale is required")
	}
	if len(input.Detalles) == 0 {
		return common.NewValidationError("sale must have at least one product")
	}
	if input.ClienteID <= 0 {
		return common.NewValidationError("cliente_id is required")
	}
	if input.EsAfectaIVA == nil {
		return common.NewValidationError("es_afecta_iva is required")
	}
	if input.CantidadBultos < 1 {
		return common.NewValidationError("cantidad_bultos must be at least 1")
	}
	if input.CantidadBultos > math.MaxInt32 {
		return common.NewValidationError("cantidad_bultos is too large")
	}
	if input.IdempotencyKey != nil && strings.TrimSpace(*input.IdempotencyKey) == "" {
		input.IdempotencyKey = nil
	}

	for i, item := range input.Detalles {
		if item.ProductoID <= 0 {
			return common.NewValidationError("detalles[%d]: producto_id is required", i)
		}
		if item.Cantidad <= 0 {
			return common.NewValidationError("detalles[%d]: cantidad must be greater than zero", i)
		}
		if item.Cantidad > math.MaxInt32 {
			return common.NewValidationError("detalles[%d]: cantidad is too large", i)
		}
		if item.PrecioUnitario == nil {
			return common.NewValidationError("detalles[%d]: precio_unitario is required", i)
		}
		if item.PrecioUnitario.IsNegative() {
			return common.NewValidationError("detalles[%d]: precio_unitario cannot be negative", i)
		}
		if item.PrecioUnitario.Exponent() < -2 && !item.PrecioUnitario.Equal(item.PrecioUnitario.Round(2)) {
			return common.NewValidationError("detalles[%d]: precio_unitario must have at most 2 decimal places", i)
		}
		if item.LineTotal().GreaterThanOrEqual(maxMoney) {
			return common.NewValidationError("detalles[%d]: line total is too large", i)
		}
	}
	if models.SaleTotal(input.Detalles).GreaterThanOrEqual(maxMoney) {
		return common.NewValidationError("sale total is too large")
	}
	return nil
}

func (s *saleService) CreateSale(ctx context.Context, input *models.SaleInput) (*models.Sale, bool, error) {
	if err := ValidateSaleInput(input); err != nil {
		return nil, false, err
	}

	if input.IdempotencyKey != nil {
		existing, err := s.saleByIdempotencyKey(ctx, *input.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	sale := &models.Sale{
		ClienteID:      input.ClienteID,
		EsAfectaIVA:    *input.EsAfectaIVA,
		CantidadBultos: input.CantidadBultos,
		Total:          models.SaleTotal(input.Detalles),
		IdempotencyKey: input.IdempotencyKey,
	}
	if input.Fecha != nil {
		sale.Fecha = *input.Fecha
	}

	err := s.inTransaction(ctx, func(ctx context.Context) error {
		return s.recordSale(ctx, sale, input.Detalles)
	})
	if err != nil {
		if input.IdempotencyKey != nil && repositories.IsUniqueViolation(err) {
			// a concurrent request with the same key won the race
			existing, lookupErr := s.saleByIdempotencyKey(ctx, *input.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create sale: %w", err)
	}

	invalidateReports(ctx, s.cacheSvc)
	s.publish(ctx, &models.SaleEvent{
		Type:       models.SaleCreatedEvent,
		SaleID:     sale.ID,
		ClienteID:  sale.ClienteID,
		Total:      sale.Total,
		Items:      len(sale.Detalles),
		OccurredAt: time.Now().UTC(),
	})

	return sale, true, nil
}

// recordSale runs inside the sale transaction: customer check, stock
// decrements in product id order, then the sale header and its lines.
func (s *saleService) recordSale(ctx context.Context, sale *models.Sale, items []models.SaleItemInput) error {
	exists, err := s.customerRepo.Exists(ctx, sale.ClienteID)
	if err != nil {
		return err
	}
	if !exists {
		return common.NewNotFoundError("customer %d not found", sale.ClienteID)
	}

	ordered := make([]models.SaleItemInput, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ProductoID < ordered[j].ProductoID
	})
	for _, item := range ordered {
		if _, err := s.productRepo.AdjustStock(ctx, item.ProductoID, -item.Cantidad, 0); err != nil {
			return err
		}
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return err
	}

	sale.Detalles = make([]*models.SaleItem, 0, len(items))
	for _, item := range items {
		line := &models.SaleItem{
			VentaID:        sale.ID,
			ProductoID:     item.ProductoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: *item.PrecioUnitario,
		}
		if err := s.saleRepo.CreateItem(ctx, line); err != nil {
			return err
		}
		sale.Detalles = append(sale.Detalles, line)
	}
	return nil
}

// inTransaction runs fn in one database transaction. Repositories pick the
// transaction up from the context. Any error rolls everything back.
func (s *saleService) inTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.db)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("WARN: transaction rollback failed: %v", rbErr)
			}
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		err = errors.New("unexpected transaction type")
		return err
	}

	if err = fn(tr.WithTx(ctx, pgxTx)); err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}

func (s *saleService) saleByIdempotencyKey(ctx context.Context, key string) (*models.Sale, error) {
	var id int64
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		id, err = s.saleRepo.GetIDByIdempotencyKey(ctx, key)
		return err
	})
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return s.GetSale(ctx, id)
}

func (s *saleService) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	var sale *models.Sale
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		sale, err = s.saleRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]*models.Sale, error) {
	var sales []*models.Sale
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		sales, err = s.saleRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// DeleteSale removes a sale and its line items. Stock is not restored.
func (s *saleService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.saleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	invalidateReports(ctx, s.cacheSvc)
	s.publish(ctx, &models.SaleEvent{
		Type:       models.SaleDeletedEvent,
		SaleID:     id,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *saleService) publish(ctx context.Context, event *models.SaleEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := s.publisher.PublishSaleEvent(ctx, event); err != nil {
		log.Printf("WARN: failed to publish %s for sale %d: %v", event.Type, event.SaleID, err)
	}
}

package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"time"

	"todostock/internal/caching"
	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/repositories"
	"todostock/internal/services"
	"todostock/pkg/retry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	exportURLExpiry = 15 * time.Minute
	exportPrefix    = "exports/libro_ventas/"
)

// ReportService is the read side used by the analysis endpoints and the warmup job
type ReportService interface {
	MonthlySalesTotals(ctx context.Context) ([]models.MonthlyTotal, error)
	SalesJournal(ctx context.Context) ([]*models.JournalEntry, error)
	ExportSalesJournal(ctx context.Context) (*models.JournalExport, error)
	WarmReports(ctx context.Context) error
}

// AnalyticsService computes sales reports and keeps them in the report cache
type AnalyticsService struct {
	reportRepo   repositories.ReportRepository
	cacheService caching.CacheService
	minioService services.MinioService
	cacheTTL     time.Duration
	location     *time.Location
	readRetries  int
}

// NewAnalyticsService wires the report service. cacheService and minioService may be nil.
func NewAnalyticsService(
	reportRepo repositories.ReportRepository,
	cacheService caching.CacheService,
	minioService services.MinioService,
	cacheTTL time.Duration,
	location *time.Location,
	readRetries int,
) *AnalyticsService {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsService{
		reportRepo:   reportRepo,
		cacheService: cacheService,
		minioService: minioService,
		cacheTTL:     cacheTTL,
		location:     location,
		readRetries:  readRetries,
	}
}

// MonthlySalesTotals returns the sum of sale totals per calendar month, oldest month first
func (a *AnalyticsService) MonthlySalesTotals(ctx context.Context) ([]models.MonthlyTotal, error) {
	if a.cacheService != nil {
		cached, err := a.cacheService.GetMonthlySales(ctx)
		if err != nil {
			log.Printf("WARN: monthly sales cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	generation, cacheable := a.reportGeneration(ctx)
	totals, err := a.computeMonthlyTotals(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := a.cacheService.SetMonthlySales(ctx, totals, generation, a.cacheTTL); err != nil {
			log.Printf("WARN: monthly sales cache write failed: %v", err)
		}
	}
	return totals, nil
}

// reportGeneration must be read before the database so that a sale written
// while the report loads keeps the result out of the cache.
func (a *AnalyticsService) reportGeneration(ctx context.Context) (int64, bool) {
	if a.cacheService == nil {
		return 0, false
	}
	generation, err := a.cacheService.ReportGeneration(ctx)
	if err != nil {
		log.Printf("WARN: report cache generation read failed: %v", err)
		return 0, false
	}
	return generation, true
}

func (a *AnalyticsService) computeMonthlyTotals(ctx context.Context) ([]models.MonthlyTotal, error) {
	var summaries []models.SaleSummary
	err := retry.Do(ctx, a.readRetries, func(ctx context.Context) error {
		var err error
		summaries, err = a.reportRepo.SaleSummaries(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return GroupByMonth(summaries, a.location), nil
}

// GroupByMonth buckets sales by the YYYY-MM of their fecha in loc and sums
// each bucket. The result is sorted ascending by month.
func GroupByMonth(summaries []models.SaleSummary, loc *time.Location) []models.MonthlyTotal {
	if loc == nil {
		loc = time.UTC
	}

	sums := make(map[string]decimal.Decimal)
	for _, s := range summaries {
		month := s.Fecha.In(loc).Format("2006-01")
		sums[month] = sums[month].Add(s.Total)
	}

	totals := make([]models.MonthlyTotal, 0, len(sums))
	for month, total := range sums {
		totals = append(totals, models.MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// SalesJournal returns one row per line item, newest sale first
func (a *AnalyticsService) SalesJournal(ctx context.Context) ([]*models.JournalEntry, error) {
	if a.cacheService != nil {
		cached, err := a.cacheService.GetSalesJournal(ctx)
		if err != nil {
			log.Printf("WARN: sales journal cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	generation, cacheable := a.reportGeneration(ctx)
	entries, err := a.loadJournal(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := a.cacheService.SetSalesJournal(ctx, entries, generation, a.cacheTTL); err != nil {
			log.Printf("WARN: sales journal cache write failed: %v", err)
		}
	}
	return entries, nil
}

func (a *AnalyticsService) loadJournal(ctx context.Context) ([]*models.JournalEntry, error) {
	var entries []*models.JournalEntry
	err := retry.Do(ctx, a.readRetries, func(ctx context.Context) error {
		var err error
		entries, err = a.reportRepo.Journal(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales journal: %w", err)
	}
	if entries == nil {
		entries = []*models.JournalEntry{}
	}
	return entries, nil
}

// ExportSalesJournal writes the journal as CSV to object storage and returns
// a presigned download link. The journal is read fresh, not from the cache.
func (a *AnalyticsService) ExportSalesJournal(ctx context.Context) (*models.JournalExport, error) {
	if a.minioService == nil {
		return nil, fmt.Errorf("%w: object storage not configured", common.ErrBackendUnavailable)
	}

	entries, err := a.loadJournal(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteJournalCSV(&buf, entries, a.location); err != nil {
		return nil, fmt.Errorf("failed to encode sales journal: %w", err)
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("%s%s-%s.csv", exportPrefix, now.Format("20060102T150405Z"), uuid.NewString())
	if err := a.minioService.Upload(ctx, objectName, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return nil, fmt.Errorf("%w: failed to upload export: %v", common.ErrBackendUnavailable, err)
	}

	url, err := a.minioService.GetPresignedURL(ctx, objectName, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign export url: %v", common.ErrBackendUnavailable, err)
	}

	log.Printf("Exported sales journal (%d rows) to %s/%s", len(entries), a.minioService.Bucket(), objectName)
	return &models.JournalExport{
		ObjectName: objectName,
		URL:        url,
		Rows:       len(entries),
		ExpiresAt:  now.Add(exportURLExpiry),
	}, nil
}

var journalCSVHeader = []string{
	"venta_id", "fecha", "es_afecta_iva",
	"cliente_id", "cliente_nombre", "cliente_rut",
	"producto_id", "codigo", "nombre_producto",
	"cantidad", "precio_unitario", "subtotal",
}

// WriteJournalCSV encodes journal rows with a header line. Fechas are written in loc.
func WriteJournalCSV(w io.Writer, entries []*models.JournalEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(journalCSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		subtotal := e.PrecioUnitario.Mul(decimal.NewFromInt(int64(e.Cantidad)))
		record := []string{
			strconv.FormatInt(e.VentaID, 10),
			e.Fecha.In(loc).Format(time.RFC3339),
			strconv.FormatBool(e.EsAfectaIVA),
			strconv.FormatInt(e.Cliente.ID, 10),
			e.Cliente.Nombre,
			e.Cliente.Rut,
			strconv.FormatInt(e.Producto.ID, 10),
			e.Producto.Codigo,
			e.Producto.NombreProducto,
			strconv.Itoa(e.Cantidad),
			e.PrecioUnitario.StringFixed(2),
			subtotal.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WarmReports recomputes both reports and stores them in the cache
func (a *AnalyticsService) WarmReports(ctx context.Context) error {
	if a.cacheService == nil {
		return nil
	}

	generation, err := a.cacheService.ReportGeneration(ctx)
	if err != nil {
		return fmt.Errorf("failed to read report cache generation: %w", err)
	}

	totals, err := a.computeMonthlyTotals(ctx)
	if err != nil {
		return err
	}
	if err := a.cacheService.SetMonthlySales(ctx, totals, generation, a.cacheTTL); err != nil {
		return fmt.Errorf("failed to cache monthly sales: %w", err)
	}

	entries, err := a.loadJournal(ctx)
	if err != nil {
		return err
	}
	if err := a.cacheService.SetSalesJournal(ctx, entries, generation, a.cacheTTL); err != nil {
		return fmt.Errorf("failed to cache sales journal: %w", err)
	}
	return nil
}

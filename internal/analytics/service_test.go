package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"todostock/internal/common"
	"todostock/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) SaleSummaries(ctx context.Context) ([]models.SaleSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SaleSummary), args.Error(1)
}

func (m *mockReportRepo) Journal(ctx context.Context) ([]*models.JournalEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JournalEntry), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetMonthlySales(ctx context.Context) ([]models.MonthlyTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyTotal), args.Error(1)
}

func (m *mockCache) ReportGeneration(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) SetMonthlySales(ctx context.Context, totals []models.MonthlyTotal, generation int64, ttl time.Duration) error {
	return m.Called(ctx, totals, generation, ttl).Error(0)
}

func (m *mockCache) GetSalesJournal(ctx context.Context) ([]*models.JournalEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JournalEntry), args.Error(1)
}

func (m *mockCache) SetSalesJournal(ctx context.Context, entries []*models.JournalEntry, generation int64, ttl time.Duration) error {
	return m.Called(ctx, entries, generation, ttl).Error(0)
}

func (m *mockCache) InvalidateReports(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockCache) Close() error { return m.Called().Error(0) }

type mockMinio struct {
	mock.Mock
	uploaded []byte
}

func (m *mockMinio) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	data, _ := io.ReadAll(reader)
	m.uploaded = data
	return m.Called(ctx, objectName, objectSize, contentType).Error(0)
}

func (m *mockMinio) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *mockMinio) Delete(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *mockMinio) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockMinio) Bucket() string { return "todostock-exports" }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGroupByMonth(t *testing.T) {
	summaries := []models.SaleSummary{
		{Fecha: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), Total: dec("100.10")},
		{Fecha: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), Total: dec("50.25")},
		{Fecha: time.Date(2024, 2, 11, 9, 0, 0, 0, time.UTC), Total: dec("0.20")},
		{Fecha: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), Total: dec("10")},
	}

	totals := GroupByMonth(summaries, time.UTC)

	require.Len(t, totals, 3)
	assert.Equal(t, "2023-12", totals[0].Month)
	assert.Equal(t, "2024-01", totals[1].Month)
	assert.Equal(t, "2024-02", totals[2].Month)
	assert.True(t, totals[2].Total.Equal(dec("100.30")))
}

func TestGroupByMonth_UsesLocation(t *testing.T) {
	santiago := time.FixedZone("CLT", -4*60*60)
	summaries := []models.SaleSummary{
		// 02:00 UTC on Mar 1 is still Feb 29 in Santiago
		{Fecha: time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC), Total: dec("5")},
	}

	totals := GroupByMonth(summaries, santiago)

	require.Len(t, totals, 1)
	assert.Equal(t, "2024-02", totals[0].Month)
}

func TestGroupByMonth_Empty(t *testing.T) {
	totals := GroupByMonth(nil, nil)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)

	out, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestMonthlySalesTotals_CacheHitSkipsRepository(t *testing.T) {
	repo := new(mockReportRepo)
	cache := new(mockCache)
	cached := []models.MonthlyTotal{{Month: "2024-01", Total: dec("150.5")}}
	cache.On("GetMonthlySales", mock.Anything).Return(cached, nil).Once()

	svc := NewAnalyticsService(repo, cache, nil, time.Minute, time.UTC, 1)
	totals, err := svc.MonthlySalesTotals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cached, totals)
	repo.AssertNotCalled(t, "SaleSummaries", mock.Anything)
	cache.AssertExpectations(t)
}

func TestMonthlySalesTotals_MissComputesAndStores(t *testing.T) {
	repo := new(mockReportRepo)
	cache := new(mockCache)
	cache.On("GetMonthlySales", mock.Anything).Return(nil, nil).Once()
	repo.On("SaleSummaries", mock.Anything).Return([]models.SaleSummary{
		{Fecha: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Total: dec("100")},
		{Fecha: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Total: dec("50.5")},
	}, nil).Once()
	cache.On("ReportGeneration", mock.Anything).Return(int64(4), nil).Once()
	cache.On("SetMonthlySales", mock.Anything, mock.Anything, int64(4), 5*time.Minute).Return(errors.New("redis down")).Once()

	svc := NewAnalyticsService(repo, cache, nil, 5*time.Minute, time.UTC, 1)
	totals, err := svc.MonthlySalesTotals(context.Background())

	require.NoError(t, err)
	require.Len(t, totals, 1)
	out, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"2024-01"`)
	assert.True(t, totals[0].Total.Equal(dec("150.5")))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSalesJournal_NoCache(t *testing.T) {
	repo := new(mockReportRepo)
	repo.On("Journal", mock.Anything).Return(nil, nil).Once()

	svc := NewAnalyticsService(repo, nil, nil, time.Minute, nil, 1)
	entries, err := svc.SalesJournal(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func journalFixture() []*models.JournalEntry {
	return []*models.JournalEntry{{
		VentaID:        12,
		Cantidad:       3,
		PrecioUnitario: dec("1.5"),
		Fecha:          time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC),
		EsAfectaIVA:    true,
		Producto:       models.ProductRef{ID: 4, Codigo: "P-004", NombreProducto: "Aceite, 1L"},
		Cliente:        models.CustomerRef{ID: 2, Nombre: "Ferretería Sur", Rut: "76.123.456-7"},
	}}
}

func TestWriteJournalCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJournalCSV(&buf, journalFixture(), time.UTC))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, journalCSVHeader, records[0])
	assert.Equal(t, []string{
		"12", "2024-05-10T15:00:00Z", "true",
		"2", "Ferretería Sur", "76.123.456-7",
		"4", "P-004", "Aceite, 1L",
		"3", "1.50", "4.50",
	}, records[1])
}

func TestExportSalesJournal(t *testing.T) {
	repo := new(mockReportRepo)
	store := new(mockMinio)
	repo.On("Journal", mock.Anything).Return(journalFixture(), nil).Once()
	store.On("Upload", mock.Anything, mock.MatchedBy(func(name string) bool {
		return len(name) > len(exportPrefix) && name[:len(exportPrefix)] == exportPrefix
	}), mock.Anything, "text/csv").Return(nil).Once()
	store.On("GetPresignedURL", mock.Anything, mock.Anything, 15*time.Minute).
		Return("http://minio.local/todostock-exports/x.csv?X-Amz-Signature=abc", nil).Once()

	svc := NewAnalyticsService(repo, nil, store, time.Minute, time.UTC, 1)
	export, err := svc.ExportSalesJournal(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, export.Rows)
	assert.Contains(t, export.URL, "X-Amz-Signature")
	assert.Contains(t, string(store.uploaded), "Aceite, 1L")
	store.AssertExpectations(t)
}

func TestExportSalesJournal_StorageNotConfigured(t *testing.T) {
	svc := NewAnalyticsService(new(mockReportRepo), nil, nil, time.Minute, time.UTC, 1)

	_, err := svc.ExportSalesJournal(context.Background())
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestWarmReports(t *testing.T) {
	repo := new(mockReportRepo)
	cache := new(mockCache)
	repo.On("SaleSummaries", mock.Anything).Return([]models.SaleSummary{}, nil).Once()
	repo.On("Journal", mock.Anything).Return(journalFixture(), nil).Once()
	cache.On("ReportGeneration", mock.Anything).Return(int64(2), nil).Once()
	cache.On("SetMonthlySales", mock.Anything, mock.Anything, int64(2), time.Minute).Return(nil).Once()
	cache.On("SetSalesJournal", mock.Anything, mock.Anything, int64(2), time.Minute).Return(nil).Once()

	svc := NewAnalyticsService(repo, cache, nil, time.Minute, time.UTC, 1)
	require.NoError(t, svc.WarmReports(context.Background()))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSalesJournal_GenerationReadFailureSkipsCacheWrite(t *testing.T) {
	repo := new(mockReportRepo)
	cache := new(mockCache)
	cache.On("GetSalesJournal", mock.Anything).Return(nil, nil).Once()
	cache.On("ReportGeneration", mock.Anything).Return(int64(0), errors.New("redis down")).Once()
	repo.On("Journal", mock.Anything).Return(journalFixture(), nil).Once()

	svc := NewAnalyticsService(repo, cache, nil, time.Minute, time.UTC, 1)
	entries, err := svc.SalesJournal(context.Background())

	require.NoError(t, err)
	assert.Len(t, entries, len(journalFixture()))
	cache.AssertNotCalled(t, "SetSalesJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// memoryReportCache keeps reports in memory with the same generation rule as Redis
type memoryReportCache struct {
	mockCache
	mu         sync.Mutex
	generation int64
	journal    []*models.JournalEntry
	monthly    []models.MonthlyTotal
}

func (c *memoryReportCache) ReportGeneration(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memoryReportCache) GetSalesJournal(ctx context.Context) ([]*models.JournalEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal, nil
}

func (c *memoryReportCache) SetSalesJournal(ctx context.Context, entries []*models.JournalEntry, generation int64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation == c.generation {
		c.journal = entries
	}
	return nil
}

func (c *memoryReportCache) GetMonthlySales(ctx context.Context) ([]models.MonthlyTotal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monthly, nil
}

func (c *memoryReportCache) SetMonthlySales(ctx context.Context, totals []models.MonthlyTotal, generation int64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation == c.generation {
		c.monthly = totals
	}
	return nil
}

func (c *memoryReportCache) InvalidateReports(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.journal = nil
	c.monthly = nil
	return nil
}

func TestSalesJournal_DeleteDuringLoadIsNotCached(t *testing.T) {
	repo := new(mockReportRepo)
	cache := &memoryReportCache{}
	before := journalFixture()
	before[0].VentaID = 7

	// the sale is deleted and the cache invalidated while the first read is in flight
	repo.On("Journal", mock.Anything).Return(before, nil).Run(func(args mock.Arguments) {
		require.NoError(t, cache.InvalidateReports(context.Background()))
	}).Once()
	repo.On("Journal", mock.Anything).Return([]*models.JournalEntry{}, nil).Once()

	svc := NewAnalyticsService(repo, cache, nil, time.Minute, time.UTC, 1)

	first, err := svc.SalesJournal(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, len(before))

	second, err := svc.SalesJournal(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	repo.AssertExpectations(t)
}

func TestMonthlySalesTotals_SaleDuringLoadIsNotCached(t *testing.T) {
	repo := new(mockReportRepo)
	cache := &memoryReportCache{}
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	repo.On("SaleSummaries", mock.Anything).Return([]models.SaleSummary{{Fecha: jan, Total: dec("100")}}, nil).Run(func(args mock.Arguments) {
		require.NoError(t, cache.InvalidateReports(context.Background()))
	}).Once()
	repo.On("SaleSummaries", mock.Anything).Return([]models.SaleSummary{
		{Fecha: jan, Total: dec("100")},
		{Fecha: jan, Total: dec("20")},
	}, nil).Once()

	svc := NewAnalyticsService(repo, cache, nil, time.Minute, time.UTC, 1)

	_, err := svc.MonthlySalesTotals(context.Background())
	require.NoError(t, err)

	totals, err := svc.MonthlySalesTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, totals[0].Total.Equal(dec("120")))

	// nothing changed since the second load, so it was cached
	cached, err := cache.GetMonthlySales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, totals, cached)
	repo.AssertExpectations(t)
}

package caching

import (
	"context"
	"os"
	"testing"
	"time"

	"todostock/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An unreachable Redis must surface as an error, never as a cache hit.
func TestRedisCacheService_UnreachableIsMissWithError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	svc := NewCacheServiceWithClient(client)
	ctx := context.Background()

	totals, err := svc.GetMonthlySales(ctx)
	assert.Error(t, err)
	assert.Nil(t, totals)

	entries, err := svc.GetSalesJournal(ctx)
	assert.Error(t, err)
	assert.Nil(t, entries)

	assert.Error(t, svc.Ping(ctx))
}

func TestReportGenerationKeyIsNotAReportKey(t *testing.T) {
	assert.Regexp(t, `^todostock:report:`, monthlySalesKey)
	assert.Regexp(t, `^todostock:report:`, salesJournalKey)
	assert.NotRegexp(t, `^todostock:report:`, reportGenerationKey)
}

func newTestRedis(t *testing.T) CacheService {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, monthlySalesKey, salesJournalKey, reportGenerationKey).Err())
	t.Cleanup(func() {
		client.Del(context.Background(), monthlySalesKey, salesJournalKey, reportGenerationKey)
		client.Close()
	})
	return NewCacheServiceWithClient(client)
}

func TestRedisCacheService_StaleGenerationWriteIsDropped(t *testing.T) {
	svc := newTestRedis(t)
	ctx := context.Background()

	gen, err := svc.ReportGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	// a sale lands between the generation read and the cache write
	require.NoError(t, svc.InvalidateReports(ctx))
	stale := []*models.JournalEntry{{VentaID: 7}}
	require.NoError(t, svc.SetSalesJournal(ctx, stale, gen, time.Minute))

	cached, err := svc.GetSalesJournal(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	gen, err = svc.ReportGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	fresh := []models.MonthlyTotal{{Month: "2024-01", Total: decimal.RequireFromString("150.5")}}
	require.NoError(t, svc.SetMonthlySales(ctx, fresh, gen, time.Minute))
	totals, err := svc.GetMonthlySales(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, totals[0].Total.Equal(decimal.RequireFromString("150.5")))
}

func TestRedisCacheService_InvalidateClearsReports(t *testing.T) {
	svc := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.SetSalesJournal(ctx, []*models.JournalEntry{{VentaID: 1}}, 0, time.Minute))
	require.NoError(t, svc.InvalidateReports(ctx))

	cached, err := svc.GetSalesJournal(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

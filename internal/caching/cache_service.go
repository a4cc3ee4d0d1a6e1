package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"todostock/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "todostock:"

const (
	monthlySalesKey = keyPrefix + "report:monthly_sales"
	salesJournalKey = keyPrefix + "report:sales_journal"
	// bumped on every invalidation; lives outside report:* so it is never deleted
	reportGenerationKey = keyPrefix + "report_generation"
)

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// CacheService caches derived sales reports and backs request rate limiting.
// Stock is never cached.
type CacheService interface {
	// Report caching. Read ReportGeneration before loading a report from the
	// database and pass it to the setter: the write is dropped when an
	// invalidation happened in between.
	ReportGeneration(ctx context.Context) (int64, error)
	GetMonthlySales(ctx context.Context) ([]models.MonthlyTotal, error)
	SetMonthlySales(ctx context.Context, totals []models.MonthlyTotal, generation int64, ttl time.Duration) error
	GetSalesJournal(ctx context.Context) ([]*models.JournalEntry, error)
	SetSalesJournal(ctx context.Context, entries []*models.JournalEntry, generation int64, ttl time.Duration) error
	InvalidateReports(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client redis.UniversalClient
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("Redis connection established (%s)", parsedAddr)
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceWithClient wraps an existing client
func NewCacheServiceWithClient(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setReport(ctx context.Context, key string, value interface{}, generation int64, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	keys := []string{reportGenerationKey, key}
	return setIfGeneration.Run(ctx, r.client, keys, strconv.FormatInt(generation, 10), data, ttl.Milliseconds()).Err()
}

func (r *redisCacheService) ReportGeneration(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, reportGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *redisCacheService) GetMonthlySales(ctx context.Context) ([]models.MonthlyTotal, error) {
	var totals []models.MonthlyTotal
	found, err := r.getJSON(ctx, monthlySalesKey, &totals)
	if err != nil || !found {
		return nil, err
	}
	if totals == nil {
		totals = []models.MonthlyTotal{}
	}
	return totals, nil
}

func (r *redisCacheService) SetMonthlySales(ctx context.Context, totals []models.MonthlyTotal, generation int64, ttl time.Duration) error {
	return r.setReport(ctx, monthlySalesKey, totals, generation, ttl)
}

func (r *redisCacheService) GetSalesJournal(ctx context.Context) ([]*models.JournalEntry, error) {
	var entries []*models.JournalEntry
	found, err := r.getJSON(ctx, salesJournalKey, &entries)
	if err != nil || !found {
		return nil, err
	}
	if entries == nil {
		entries = []*models.JournalEntry{}
	}
	return entries, nil
}

func (r *redisCacheService) SetSalesJournal(ctx context.Context, entries []*models.JournalEntry, generation int64, ttl time.Duration) error {
	return r.setReport(ctx, salesJournalKey, entries, generation, ttl)
}

func (r *redisCacheService) InvalidateReports(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, reportGenerationKey)
		pipe.Del(ctx, monthlySalesKey, salesJournalKey)
		return nil
	})
	return err
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%sratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			log.Printf("WARN: failed to set rate limit window for %s: %v", cacheKey, err)
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// Package retry re-runs idempotent read operations on transient backend errors
// using exponential backoff with jitter.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultAttempts = 3
	DefaultJitter   = 0.5
)

var (
	BaseDelay = 50 * time.Millisecond
	MaxDelay  = 1 * time.Second

	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// ExponentialBackoff doubles base per attempt (zero based), caps at max and adds up to jitterFactor*backoff.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}
	randMutex.Lock()
	jitter := globalRand.Float64() * jitterFactor * float64(backoff)
	randMutex.Unlock()
	return backoff + time.Duration(jitter)
}

// IsTransient reports whether err is worth retrying on a read path:
// connection failures, serialization failures, deadlocks and timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P03":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Do runs fn up to attempts times, sleeping between transient failures.
// Non-transient errors and context cancellation return immediately.
func Do(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) || attempt == attempts-1 {
			return err
		}

		timer := time.NewTimer(ExponentialBackoff(BaseDelay, MaxDelay, attempt, DefaultJitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

// Package source implements adapters turning external news sources into raw candidates.
// Every adapter fails soft: errors are returned together with whatever was collected,
// and callers are expected to log them and continue with other sources.
package source

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/umputun/regwatch/pkg/domain"
)

// Source produces candidates from one external source
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Candidate, error)
}

// Relevance tells if a title is worth keeping, it must not consume keyword quota
type Relevance interface {
	HasMatch(title string) bool
}

// newHTTPClient makes a client with bounded timeout
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// sleepCtx sleeps for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// jitter returns random duration in [0, d)
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d))) //nolint:gosec // non-cryptographic randomness is fine for request pacing
}

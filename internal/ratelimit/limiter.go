// Package ratelimit implements the admission filter: a per-key sliding window
// that admits at most Limit requests within any Window-long interval.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultLimit  = 100
	DefaultWindow = 60 * time.Second
)

// Limiter decides whether a request from key arriving at now is admitted.
// Implementations are safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
	Window() time.Duration
}

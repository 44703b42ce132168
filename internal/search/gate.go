package search

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate throttles calls to an upstream that punishes bursts. It is shared
// process-wide and must be safe for concurrent use.
type Gate interface {
	Wait(ctx context.Context) error
}

// NopGate never blocks. Used in tests and for providers that need no throttle.
type NopGate struct{}

func (NopGate) Wait(context.Context) error { return nil }

// IntervalGate admits at most one call per interval across all goroutines.
type IntervalGate struct {
	limiter *rate.Limiter
}

// NewIntervalGate returns a gate admitting one call every interval, with the
// first call passing immediately.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	return &IntervalGate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (g *IntervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

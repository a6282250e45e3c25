// Package ratelimit paces calls to the registry.
package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"fedlease/internal/config"
)

// Gate blocks until the next registry call may go out or ctx is done.
// Implementations are safe for concurrent use.
type Gate interface {
	Wait(ctx context.Context) error
}

// New builds the gate selected by cfg.Mode
func New(cfg config.RateConfig) (Gate, error) {
	switch cfg.Mode {
	case config.RateModeFixed, "":
		return NewFixedGate(cfg.Interval), nil
	case config.RateModeToken:
		return NewTokenGate(cfg.Interval, cfg.Burst), nil
	default:
		return nil, fmt.Errorf("unknown rate mode %q", cfg.Mode)
	}
}

// FixedGate sleeps a fixed interval before every call, however long the
// previous call took.
type FixedGate struct {
	interval time.Duration
}

// NewFixedGate returns a gate that pauses interval before every call
func NewFixedGate(interval time.Duration) *FixedGate {
	return &FixedGate{interval: interval}
}

// Wait sleeps the interval or returns ctx.Err() if ctx ends first
func (g *FixedGate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.interval <= 0 {
		return nil
	}

	t := time.NewTimer(g.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TokenGate is a token bucket refilled once per interval. Calls spaced further
// apart than the interval pass without sleeping.
type TokenGate struct {
	limiter *rate.Limiter
}

// NewTokenGate returns a token bucket gate. A non-positive interval disables it.
func NewTokenGate(interval time.Duration, burst int) *TokenGate {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &TokenGate{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a token is available
func (g *TokenGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Counting wraps a Gate and counts the calls it let through
type Counting struct {
	Gate
	n atomic.Int64
}

// NewCounting wraps g
func NewCounting(g Gate) *Counting {
	return &Counting{Gate: g}
}

// Wait delegates to the wrapped gate and counts successful waits
func (c *Counting) Wait(ctx context.Context) error {
	if err := c.Gate.Wait(ctx); err != nil {
		return err
	}
	c.n.Add(1)
	return nil
}

// Count returns the number of successful waits
func (c *Counting) Count() int64 {
	return c.n.Load()
}

var (
	_ Gate = (*FixedGate)(nil)
	_ Gate = (*TokenGate)(nil)
	_ Gate = (*Counting)(nil)
)

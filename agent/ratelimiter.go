package agent

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/flowcraft/llmorch/prompt"
)

// DefaultProviderConcurrency is the default cap on simultaneous outbound
// calls to a single provider (spec.md §5).
const DefaultProviderConcurrency = 8

// ProviderLimiter bounds per-provider concurrency: a semaphore caps how
// many calls to one provider may be in flight at once, and an optional
// golang.org/x/time/rate limiter paces how often new calls may start.
// Both the Agent's direct calls and the workflow executor's dispatcher
// share the same limiter per provider so neither can starve the other's
// budget.
type ProviderLimiter struct {
	sem   chan struct{}
	pacer *rate.Limiter
}

// NewProviderLimiter creates a limiter allowing at most concurrency calls
// in flight. If requestsPerSecond > 0, new calls are additionally paced
// at that rate with a burst equal to concurrency.
func NewProviderLimiter(concurrency int, requestsPerSecond float64) *ProviderLimiter {
	if concurrency <= 0 {
		concurrency = DefaultProviderConcurrency
	}
	l := &ProviderLimiter{sem: make(chan struct{}, concurrency)}
	if requestsPerSecond > 0 {
		l.pacer = rate.NewLimiter(rate.Limit(requestsPerSecond), concurrency)
	}
	return l
}

// Acquire blocks until a concurrency slot and (if configured) a pacing
// token are both available, or ctx is done.
func (l *ProviderLimiter) Acquire(ctx context.Context) error {
	if l.pacer != nil {
		if err := l.pacer.Wait(ctx); err != nil {
			return err
		}
	}
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns the concurrency slot acquired by Acquire.
func (l *ProviderLimiter) Release() {
	<-l.sem
}

// LimiterRegistry hands out one ProviderLimiter per provider, created
// lazily on first use and shared thereafter.
type LimiterRegistry struct {
	mu             sync.Mutex
	limiters       map[prompt.Provider]*ProviderLimiter
	concurrency    int
	requestsPerSec float64
}

func NewLimiterRegistry(concurrency int, requestsPerSecond float64) *LimiterRegistry {
	return &LimiterRegistry{
		limiters:       make(map[prompt.Provider]*ProviderLimiter),
		concurrency:    concurrency,
		requestsPerSec: requestsPerSecond,
	}
}

func (r *LimiterRegistry) For(provider prompt.Provider) *ProviderLimiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[provider]
	if !ok {
		l = NewProviderLimiter(r.concurrency, r.requestsPerSec)
		r.limiters[provider] = l
	}
	return l
}

// SetConcurrency overrides the concurrency cap for a single provider,
// replacing its limiter. Callers must do this before the provider's first
// Acquire; it is meant for startup configuration (see config.Config),
// not runtime retuning while calls are in flight.
func (r *LimiterRegistry) SetConcurrency(provider prompt.Provider, concurrency int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[provider] = NewProviderLimiter(concurrency, r.requestsPerSec)
}

package util

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter spreads requests out per hostname so replay calls stay polite
// to each career site no matter how many companies share a run.
type HostLimiter struct {
	perSec rate.Limit
	burst  int

	mu      sync.Mutex
	perHost map[string]*rate.Limiter
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		perSec:  rate.Limit(reqPerSec),
		burst:   burst,
		perHost: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the named host has budget, or the context ends.
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	hl.mu.Lock()
	lim, ok := hl.perHost[host]
	if !ok {
		lim = rate.NewLimiter(hl.perSec, hl.burst)
		hl.perHost[host] = lim
	}
	hl.mu.Unlock()
	return lim.Wait(ctx)
}

// WaitURL blocks until the URL's host has budget. Unparseable or host-less
// URLs share one bucket.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}
	return hl.Wait(ctx, host)
}

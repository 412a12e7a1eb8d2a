package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiterSeparateHosts(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx := context.Background()

	// One token per host; different hosts do not contend.
	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://a.example/api"))
	require.NoError(t, hl.WaitURL(ctx, "https://b.example/api"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestHostLimiterThrottlesSameHost(t *testing.T) {
	hl := NewHostLimiter(10, 1)
	ctx := context.Background()

	require.NoError(t, hl.WaitURL(ctx, "https://a.example/api"))
	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://a.example/other"))
	// Second call on the same host waits for the next token (~100ms at 10/s).
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestHostLimiterCancelledContext(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	ctx := context.Background()
	require.NoError(t, hl.WaitURL(ctx, "https://a.example/api"))

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(cctx, "https://a.example/api"))
}

func TestHostLimiterBadURLSharesBucket(t *testing.T) {
	hl := NewHostLimiter(100, 1)
	require.NoError(t, hl.WaitURL(context.Background(), "not a url at all"))
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func limitedRequest(e *echo.Echo, h echo.HandlerFunc, ip, subject string) int {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subject != "" {
		c.Set("subject", subject)
	}
	_ = h(c)
	return rec.Code
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	e := echo.New()
	h := rl.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, limitedRequest(e, h, "10.0.0.1", ""))
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(e, h, "10.0.0.1", ""))

	// separate buckets per IP and per token subject
	assert.Equal(t, http.StatusOK, limitedRequest(e, h, "10.0.0.2", ""))
	assert.Equal(t, http.StatusOK, limitedRequest(e, h, "10.0.0.1", "agent-1"))
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	rl.limiter("ip:idle")
	rl.limiter("ip:busy").Allow()

	assert.Equal(t, 1, rl.prune())
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "ip:busy")
}

func TestRateLimiter_CleanupStops(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.Equal(t, 120, rl.requestsPerMinute)
	assert.Equal(t, 1, rl.burst)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/realtyaura/aura/pkg/cache"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/store"
)

// DefaultCacheTTL is how long computed insights stay cached
const DefaultCacheTTL = 5 * time.Minute

const cacheName = "insights"

// Service computes market and performance insights
type Service struct {
	store   *store.Store
	cache   *cache.Client
	ttl     time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a new analytics service
func NewService(st *store.Store, log logger.Logger) *Service {
	return &Service{store: st, ttl: DefaultCacheTTL, logger: log}
}

// WithCache caches results in Redis for ttl
func (s *Service) WithCache(c *cache.Client, ttl time.Duration) *Service {
	s.cache = c
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// WithMetrics records cache hits and misses on m
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// InvalidateCache drops every cached insight
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	n, err := s.cache.DeletePattern(ctx, cacheName+":*")
	if err != nil {
		return err
	}
	s.logger.Debug("insight cache invalidated", "keys", n)
	return nil
}

// cached returns the value stored at key or computes and stores it. Cache
// failures fall through to load.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (*T, error)) (*T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	key = cacheName + ":" + key
	var hit T
	err := s.cache.GetJSON(ctx, key, &hit)
	switch {
	case err == nil:
		s.metrics.RecordCache(cacheName, true)
		return &hit, nil
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("insight cache read failed", "key", key, "error", err)
	}
	s.metrics.RecordCache(cacheName, false)

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		s.logger.Warn("insight cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var printer = message.NewPrinter(language.English)

// FormatAED renders an amount with thousands separators and no decimals
func FormatAED(v float64) string {
	return printer.Sprintf("AED %.0f", v)
}

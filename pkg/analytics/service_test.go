package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/cache"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
	"github.com/realtyaura/aura/pkg/testdata"
)

func TestMarketInsights(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	svc := NewService(st, logger.NewNop())
	ctx := context.Background()

	t.Run("Success - overall market", func(t *testing.T) {
		mi, err := svc.MarketInsights(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, OverallMarket, mi.Area)
		require.Len(t, mi.PropertyTypes, 2)

		apt := mi.PropertyTypes[0]
		assert.Equal(t, "Apartment", apt.Type)
		assert.Equal(t, 3, apt.Count)
		assert.Equal(t, 2633333.33, apt.AveragePrice)
		assert.Equal(t, PriceRange{Min: 2200000, Max: 3200000}, apt.PriceRange)
		assert.Equal(t, 1926.83, apt.PricePerSqft)

		villa := mi.PropertyTypes[1]
		assert.Equal(t, 2428.57, villa.PricePerSqft)

		assert.Equal(t, 4, mi.Summary.TotalProperties)
		assert.Equal(t, 4100000.0, mi.Summary.AverageMarketPrice)
		assert.Equal(t, "Apartment", mi.Summary.MostCommonType)
	})

	t.Run("Success - area filter is case-insensitive", func(t *testing.T) {
		mi, err := svc.MarketInsights(ctx, "palm")
		require.NoError(t, err)
		assert.Equal(t, "palm", mi.Area)
		assert.Equal(t, 4, mi.Summary.TotalProperties)
	})

	t.Run("Success - empty area", func(t *testing.T) {
		mi, err := svc.MarketInsights(ctx, "Deira")
		require.NoError(t, err)
		assert.Empty(t, mi.PropertyTypes)
		assert.Equal(t, 0, mi.Summary.TotalProperties)
		assert.Equal(t, 0.0, mi.Summary.AverageMarketPrice)
		assert.Equal(t, "N/A", mi.Summary.MostCommonType)
	})
}

func TestFormatMarket(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	mi, err := NewService(st, logger.NewNop()).MarketInsights(context.Background(), "")
	require.NoError(t, err)

	text := FormatMarket(mi)
	assert.Contains(t, text, "Market Analysis for Overall Market:")
	assert.Contains(t, text, "Average Price: AED 4,100,000")
	assert.Contains(t, text, "• Villa: 1 properties, Avg: AED 8,500,000")
}

func seedDeals(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.CreateDeal(ctx, &models.Deal{ContactID: 1, PropertyID: 2, DealType: "Sale", DealValue: 3200000}))

	closed := &models.Deal{ContactID: 2, PropertyID: 1, DealType: "Sale", DealValue: 2500000, Commission: 50000}
	require.NoError(t, st.CreateDeal(ctx, closed))
	require.NoError(t, st.UpdateDealStatus(ctx, closed.ID, store.DealStatusClosed))
	require.NoError(t, st.CompleteTask(ctx, 1))
}

func TestPerformanceMetrics(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	seedDeals(t, st)

	pm, err := NewService(st, logger.NewNop()).PerformanceMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &PerformanceMetrics{
		ActiveDeals:        1,
		DealsClosed30Days:  1,
		Revenue30Days:      2500000,
		Commission30Days:   50000,
		PipelineValue:      3200000,
		ConversionRate:     40,
		AverageDealSize:    2500000,
		TaskCompletionRate: 20,
	}, pm)

	text := FormatPerformance(pm)
	assert.Contains(t, text, "• Pipeline Value: AED 3,200,000")
	assert.Contains(t, text, "• Conversion Rate: 40%")
}

func TestPerformanceMetricsEmpty(t *testing.T) {
	st, _ := testdata.OpenStore(t)
	pm, err := NewService(st, logger.NewNop()).PerformanceMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &PerformanceMetrics{}, pm)
}

func TestCachedInsights(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	mr := miniredis.RunT(t)
	client := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })

	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(st, logger.NewNop()).WithCache(client, time.Minute).WithMetrics(m)
	ctx := context.Background()

	first, err := svc.MarketInsights(ctx, "Palm")
	require.NoError(t, err)
	assert.True(t, mr.Exists("aura:insights:market:palm"))

	require.NoError(t, st.CreateProperty(ctx, &models.Property{
		Building: "Atlantis", Unit: "7", Area: "Palm Jumeirah", PropertyType: "Penthouse", Price: 12000000,
	}))

	again, err := svc.MarketInsights(ctx, "palm")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("insights")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("insights")))

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.MarketInsights(ctx, "palm")
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.Summary.TotalProperties)

	_, err = svc.PerformanceMetrics(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCache(ctx))
	assert.False(t, mr.Exists("aura:insights:performance"))
	assert.False(t, mr.Exists("aura:insights:market:palm"))
}

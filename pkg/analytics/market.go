package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/store"
)

// OverallMarket labels insights computed without an area filter
const OverallMarket = "Overall Market"

// PriceRange is the cheapest and dearest listing of a type
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TypeInsight summarizes Available properties of one type
type TypeInsight struct {
	Type            string     `json:"type"`
	AveragePrice    float64    `json:"average_price"`
	Count           int        `json:"count"`
	PriceRange      PriceRange `json:"price_range"`
	AverageSizeSqft float64    `json:"average_size_sqft"`
	PricePerSqft    float64    `json:"price_per_sqft"`
}

// MarketSummary totals the market
type MarketSummary struct {
	TotalProperties    int     `json:"total_properties"`
	AverageMarketPrice float64 `json:"average_market_price"`
	MostCommonType     string  `json:"most_common_type"`
}

// MarketInsights describes Available inventory in an area
type MarketInsights struct {
	Area          string        `json:"area"`
	PropertyTypes []TypeInsight `json:"property_types"`
	Summary       MarketSummary `json:"summary"`
}

// MarketInsights groups Available properties by type, optionally within
// areas containing area.
func (s *Service) MarketInsights(ctx context.Context, area string) (*MarketInsights, error) {
	area = strings.TrimSpace(area)
	return cached(ctx, s, "market:"+strings.ToLower(area), func(ctx context.Context) (*MarketInsights, error) {
		rows, err := s.store.MarketRows(ctx, area)
		if err != nil {
			s.logger.Error("failed to load market data", "area", area, "error", err)
			return nil, fmt.Errorf("failed to get market insights: %w", err)
		}
		return buildMarket(area, rows), nil
	})
}

func buildMarket(area string, rows []store.MarketRow) *MarketInsights {
	if area == "" {
		area = OverallMarket
	}
	mi := &MarketInsights{Area: area, PropertyTypes: make([]TypeInsight, 0, len(rows))}

	var totalValue float64
	best := -1
	for i, r := range rows {
		mi.Summary.TotalProperties += r.Count
		totalValue += r.AvgPrice * float64(r.Count)

		ti := TypeInsight{
			Type:            r.PropertyType,
			AveragePrice:    round2(r.AvgPrice),
			Count:           r.Count,
			PriceRange:      PriceRange{Min: r.MinPrice, Max: r.MaxPrice},
			AverageSizeSqft: round2(r.AvgSize),
		}
		if r.AvgPrice > 0 && r.AvgSize > 0 {
			ti.PricePerSqft = round2(r.AvgPrice / r.AvgSize)
		}
		mi.PropertyTypes = append(mi.PropertyTypes, ti)

		if best < 0 || r.Count > rows[best].Count {
			best = i
		}
	}

	mi.Summary.MostCommonType = "N/A"
	if best >= 0 {
		mi.Summary.MostCommonType = rows[best].PropertyType
	}
	if mi.Summary.TotalProperties > 0 {
		mi.Summary.AverageMarketPrice = round2(totalValue / float64(mi.Summary.TotalProperties))
	}
	return mi
}

// FormatMarket renders market insights as chat text
func FormatMarket(mi *MarketInsights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Market Analysis for %s:\n\n", mi.Area)
	fmt.Fprintf(&b, "Total Properties: %d\n", mi.Summary.TotalProperties)
	fmt.Fprintf(&b, "Average Price: %s\n", FormatAED(mi.Summary.AverageMarketPrice))
	fmt.Fprintf(&b, "Most Common Type: %s\n\n", mi.Summary.MostCommonType)

	if len(mi.PropertyTypes) > 0 {
		b.WriteString("By Property Type:\n")
		for _, t := range mi.PropertyTypes[:min(3, len(mi.PropertyTypes))] {
			fmt.Fprintf(&b, "• %s: %d properties, Avg: %s\n", t.Type, t.Count, FormatAED(t.AveragePrice))
		}
	}
	return b.String()
}

package analytics

import (
	"context"
	"fmt"
	"strings"
)

// PerformanceMetrics summarizes the agent's pipeline over the last 30 days
type PerformanceMetrics struct {
	ActiveDeals        int     `json:"active_deals"`
	DealsClosed30Days  int     `json:"deals_closed_30_days"`
	Revenue30Days      float64 `json:"revenue_30_days"`
	Commission30Days   float64 `json:"commission_30_days"`
	PipelineValue      float64 `json:"pipeline_value"`
	ConversionRate     float64 `json:"conversion_rate"`
	AverageDealSize    float64 `json:"average_deal_size"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
}

// PerformanceMetrics reports deal, conversion and task figures
func (s *Service) PerformanceMetrics(ctx context.Context) (*PerformanceMetrics, error) {
	return cached(ctx, s, "performance", func(ctx context.Context) (*PerformanceMetrics, error) {
		pc, err := s.store.Performance(ctx)
		if err != nil {
			s.logger.Error("failed to load performance data", "error", err)
			return nil, fmt.Errorf("failed to get performance metrics: %w", err)
		}

		pm := &PerformanceMetrics{
			ActiveDeals:       pc.ActiveDeals,
			DealsClosed30Days: pc.ClosedRecent,
			Revenue30Days:     pc.RevenueRecent,
			Commission30Days:  pc.CommissionRecent,
			PipelineValue:     pc.PipelineValue,
			AverageDealSize:   round2(pc.AvgClosedDealValue),
		}
		if pc.TotalContacts > 0 {
			pm.ConversionRate = round2(float64(pc.ContactsWithDeals) / float64(pc.TotalContacts) * 100)
		}
		if pc.TasksCreatedRecent > 0 {
			pm.TaskCompletionRate = round2(float64(pc.TasksCompletedRecent) / float64(pc.TasksCreatedRecent) * 100)
		}
		return pm, nil
	})
}

// FormatPerformance renders performance metrics as chat text
func FormatPerformance(pm *PerformanceMetrics) string {
	var b strings.Builder
	b.WriteString("Performance Summary:\n\n")
	fmt.Fprintf(&b, "• Active Deals: %d\n", pm.ActiveDeals)
	fmt.Fprintf(&b, "• Deals Closed (30 days): %d\n", pm.DealsClosed30Days)
	fmt.Fprintf(&b, "• Revenue (30 days): %s\n", FormatAED(pm.Revenue30Days))
	fmt.Fprintf(&b, "• Commission (30 days): %s\n", FormatAED(pm.Commission30Days))
	fmt.Fprintf(&b, "• Pipeline Value: %s\n", FormatAED(pm.PipelineValue))
	fmt.Fprintf(&b, "• Conversion Rate: %g%%\n", pm.ConversionRate)
	fmt.Fprintf(&b, "• Average Deal Size: %s\n", FormatAED(pm.AverageDealSize))
	fmt.Fprintf(&b, "• Task Completion Rate: %g%%\n", pm.TaskCompletionRate)
	return b.String()
}

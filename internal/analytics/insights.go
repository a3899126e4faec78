package analytics

import (
	"fmt"
	"sort"

	"leasing-analytics-service/internal/models"
)

// Rule thresholds. Each constant belongs to exactly one rule, documented at
// the rule it drives.
const (
	paymentDeclinePoints   = 5.0
	carCostRevenueRatio    = 1.3
	carCostWorstMonthRatio = 1.5
	lowRevenueMonthRatio   = 0.7
	strongMarginPct        = 20.0
	minActiveLeases        = 50
	lowFleetUtilizationPct = 70.0
	maxSummaryInsights     = 8
	maxSummaryPriorities   = 3
	carCostTrailingMonths  = 3
)

// An insightRule inspects a report payload and emits zero or more insights.
// Rules are pure and independent of each other; only their evaluation order
// is fixed.
type insightRule func(data *models.FinancialReportData) []models.Insight

// financialRules run in this exact order so the generated list is
// reproducible across calls with identical input.
var financialRules = []insightRule{
	topRevenueDriverRule,
	topCostDriverRule,
	negativeProfitRule,
	paymentSuccessDeclineRule,
	carPurchaseGrowthRule,
	profitMarginRule,
	activeLeaseRule,
}

// GenerateInsights evaluates the financial rule set in its fixed order and
// returns every insight that fired. The same input always yields the same
// ordered list.
func GenerateInsights(data *models.FinancialReportData) []models.Insight {
	if data == nil {
		return nil
	}
	var insights []models.Insight
	for _, rule := range financialRules {
		insights = append(insights, rule(data)...)
	}
	return insights
}

// topRevenueDriverRule names the single largest revenue source.
func topRevenueDriverRule(data *models.FinancialReportData) []models.Insight {
	top := TopN(data.RevenueByType, func(b models.BreakdownItem) float64 { return b.Amount }, 1)
	if len(top) == 0 || top[0].Amount <= 0 {
		return nil
	}
	return []models.Insight{{
		Category: models.InsightRevenue,
		Priority: models.PriorityMedium,
		Message: fmt.Sprintf("Largest revenue source is %s at %.2f (%.1f%% of total revenue).",
			top[0].Category, top[0].Amount, top[0].Percentage),
	}}
}

// topCostDriverRule names the single largest cost item.
func topCostDriverRule(data *models.FinancialReportData) []models.Insight {
	top := TopN(data.CostsByType, func(b models.BreakdownItem) float64 { return b.Amount }, 1)
	if len(top) == 0 || top[0].Amount <= 0 {
		return nil
	}
	return []models.Insight{{
		Category: models.InsightCosts,
		Priority: models.PriorityMedium,
		Message: fmt.Sprintf("Largest cost item is %s at %.2f (%.1f%% of total costs).",
			top[0].Category, top[0].Amount, top[0].Percentage),
	}}
}

// negativeProfitRule reports loss-making months and classifies what drove the
// worst one: runaway car purchases, weak revenue, or both.
func negativeProfitRule(data *models.FinancialReportData) []models.Insight {
	var lossMonths []models.MonthlyFinancialRecord
	for _, m := range data.Monthly {
		if m.NetProfit < 0 {
			lossMonths = append(lossMonths, m)
		}
	}
	if len(lossMonths) == 0 {
		return nil
	}

	worst := lossMonths[0]
	for _, m := range lossMonths[1:] {
		if m.NetProfit < worst.NetProfit {
			worst = m
		}
	}

	avgRevenue := AvgBy(data.Monthly, func(m models.MonthlyFinancialRecord) float64 { return m.TotalRevenue })
	var cause string
	switch {
	case worst.CarPurchases > carCostWorstMonthRatio*worst.TotalRevenue:
		cause = "high car-acquisition costs"
	case worst.TotalRevenue < lowRevenueMonthRatio*avgRevenue:
		cause = "low revenue"
	default:
		cause = "a combination of weak revenue and elevated costs"
	}

	return []models.Insight{{
		Category: models.InsightProfit,
		Priority: models.PriorityHigh,
		Message: fmt.Sprintf("%d month(s) closed with a loss; worst was %s at %.2f, driven by %s.",
			len(lossMonths), worst.Month, worst.NetProfit, cause),
	}}
}

// paymentSuccessDeclineRule fires when the payment success rate dropped more
// than five points between the two most recent months, pairing the finding
// with a recommendation.
func paymentSuccessDeclineRule(data *models.FinancialReportData) []models.Insight {
	if len(data.Monthly) < 2 {
		return nil
	}
	prev := data.Monthly[len(data.Monthly)-2]
	cur := data.Monthly[len(data.Monthly)-1]

	change := CalcMoM(cur.PaymentSuccessRate, prev.PaymentSuccessRate)
	if change.Diff >= -paymentDeclinePoints {
		return nil
	}

	return []models.Insight{
		{
			Category: models.InsightOperations,
			Priority: models.PriorityHigh,
			Message: fmt.Sprintf("Payment success rate fell %.1f points between %s and %s (%.1f%% to %.1f%%).",
				-change.Diff, prev.Month, cur.Month, prev.PaymentSuccessRate, cur.PaymentSuccessRate),
		},
		{
			Category: models.InsightRecommendations,
			Priority: models.PriorityHigh,
			Message:  "Tighten payment follow-up: review failing charge methods and contact lessees with repeated failures before balances age.",
		},
	}
}

// carPurchaseGrowthRule compares trailing-3-month car purchases against
// revenue and flags acquisition spend outpacing income.
func carPurchaseGrowthRule(data *models.FinancialReportData) []models.Insight {
	if len(data.Monthly) < carCostTrailingMonths {
		return nil
	}
	recent := data.Monthly[len(data.Monthly)-carCostTrailingMonths:]

	avgPurchases := AvgBy(recent, func(m models.MonthlyFinancialRecord) float64 { return m.CarPurchases })
	avgRevenue := AvgBy(recent, func(m models.MonthlyFinancialRecord) float64 { return m.TotalRevenue })
	// The purchase-to-revenue multiple in the message is undefined on a
	// zero revenue baseline, so the rule stays quiet there.
	if avgRevenue <= 0 || avgPurchases <= carCostRevenueRatio*avgRevenue {
		return nil
	}

	return []models.Insight{
		{
			Category: models.InsightCosts,
			Priority: models.PriorityHigh,
			Message: fmt.Sprintf("Car purchases averaged %.1fx revenue over the last %d months (%.2f vs %.2f per month).",
				avgPurchases/avgRevenue, carCostTrailingMonths, avgPurchases, avgRevenue),
		},
		{
			Category: models.InsightRecommendations,
			Priority: models.PriorityHigh,
			Message:  "Audit the ROI of recent fleet purchases and re-check cash flow before approving further acquisitions.",
		},
	}
}

// profitMarginRule tiers the overall margin: above 20% is a positive note,
// 0-20% pairs a finding with a cost-reduction recommendation. Negative
// margins are already covered by negativeProfitRule.
func profitMarginRule(data *models.FinancialReportData) []models.Insight {
	if data.Stats == nil || data.Stats.TotalRevenue <= 0 {
		return nil
	}
	margin := data.Stats.TotalProfit / data.Stats.TotalRevenue * 100

	if margin > strongMarginPct {
		return []models.Insight{{
			Category: models.InsightProfit,
			Priority: models.PriorityLow,
			Message:  fmt.Sprintf("Profit margin is strong at %.1f%%.", margin),
		}}
	}
	if margin >= 0 {
		return []models.Insight{
			{
				Category: models.InsightProfit,
				Priority: models.PriorityMedium,
				Message:  fmt.Sprintf("Profit margin is thin at %.1f%%.", margin),
			},
			{
				Category: models.InsightRecommendations,
				Priority: models.PriorityMedium,
				Message:  "Look for cost reductions in the largest cost categories to lift the margin above 20%.",
			},
		}
	}
	return nil
}

// activeLeaseRule flags a portfolio running below the sustainable lease count.
func activeLeaseRule(data *models.FinancialReportData) []models.Insight {
	if len(data.Monthly) == 0 {
		return nil
	}
	latest := data.Monthly[len(data.Monthly)-1]
	if latest.ActiveLeases >= minActiveLeases {
		return nil
	}

	return []models.Insight{
		{
			Category: models.InsightOperations,
			Priority: models.PriorityHigh,
			Message: fmt.Sprintf("Only %d active leases in %s, below the sustainable floor of %d.",
				latest.ActiveLeases, latest.Month, minActiveLeases),
		},
		{
			Category: models.InsightRecommendations,
			Priority: models.PriorityHigh,
			Message:  "Invest in marketing and lead conversion to grow the active lease base.",
		},
	}
}

// ExecutiveSummary is the ranked, truncated finding set for the investor
// report.
type ExecutiveSummary struct {
	Insights   []models.Insight `json:"insights"`
	Priorities []models.Insight `json:"priorities"`
	Risk       models.RiskScore `json:"risk"`
}

// GenerateExecutiveSummary runs the financial rules plus the KPI-level rules
// (funnel bottleneck, best/worst metric, fleet and review health, risk) and
// ranks the result by priority, truncating to a fixed maximum. The top
// findings double as the priorities sub-list.
func GenerateExecutiveSummary(data *models.KPIInvestorReportData) ExecutiveSummary {
	if data == nil {
		return ExecutiveSummary{}
	}

	insights := GenerateInsights(&data.FinancialReportData)
	insights = append(insights, kpiInsights(data)...)

	risk := ComputeRiskScore(data.Risk)
	if risk.Level == models.RiskLevelHigh {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityHigh,
			Message:  fmt.Sprintf("Composite risk score is %.0f/100: %s", risk.Score, risk.Description),
		})
	}

	ranked := rankByPriority(insights)
	if len(ranked) > maxSummaryInsights {
		ranked = ranked[:maxSummaryInsights]
	}

	priorities := ranked
	if len(priorities) > maxSummaryPriorities {
		priorities = priorities[:maxSummaryPriorities]
	}

	return ExecutiveSummary{Insights: ranked, Priorities: priorities, Risk: risk}
}

func kpiInsights(data *models.KPIInvestorReportData) []models.Insight {
	var insights []models.Insight

	if bottleneck := FindFunnelBottleneck(data.Funnel); bottleneck != nil && bottleneck.Count > 0 {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityMedium,
			Message: fmt.Sprintf("Most leads (%d) are sitting at the %q funnel stage.",
				bottleneck.Count, bottleneck.Stage),
		})
	}

	if best := FindBestMetric(data.Metrics); best != nil {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityLow,
			Message:  fmt.Sprintf("Best moving metric is %s, up %.1f%% month over month.", best.Name, *best.ChangePct),
		})
	}
	if worst := FindWorstMetric(data.Metrics); worst != nil {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityMedium,
			Message:  fmt.Sprintf("Worst moving metric is %s, down %.1f%% month over month.", worst.Name, -*worst.ChangePct),
		})
	}

	if data.Fleet.TotalVehicles > 0 && data.Fleet.UtilizationRate < lowFleetUtilizationPct {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityMedium,
			Message: fmt.Sprintf("Fleet utilization is %.1f%% with %d idle vehicles.",
				data.Fleet.UtilizationRate, data.Fleet.IdleVehicles),
		})
	}

	if data.Reviews.PendingReviews > data.Reviews.CompletedReviews {
		insights = append(insights, models.Insight{
			Category: models.InsightOperations,
			Priority: models.PriorityMedium,
			Message: fmt.Sprintf("Technician review backlog: %d pending against %d completed.",
				data.Reviews.PendingReviews, data.Reviews.CompletedReviews),
		})
	}

	return insights
}

// rankByPriority orders insights high, medium, low, keeping the original
// rule order within each tier.
func rankByPriority(insights []models.Insight) []models.Insight {
	ranked := make([]models.Insight, len(insights))
	copy(ranked, insights)
	sort.SliceStable(ranked, func(i, j int) bool {
		return priorityRank(ranked[i].Priority) < priorityRank(ranked[j].Priority)
	})
	return ranked
}

func priorityRank(priority string) int {
	switch priority {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	default:
		return 2
	}
}

package analytics

import (
	"reflect"
	"strings"
	"testing"

	"leasing-analytics-service/internal/models"
)

// healthyReport is a baseline that fires only the two driver insights and the
// strong-margin note.
func healthyReport() *models.FinancialReportData {
	return &models.FinancialReportData{
		Stats: &models.AggregateStats{
			TotalRevenue: 60000,
			TotalCosts:   40000,
			TotalProfit:  20000,
		},
		Monthly: []models.MonthlyFinancialRecord{
			{Month: "2025-03", TotalRevenue: 20000, TotalCosts: 14000, NetProfit: 6000, CarPurchases: 8000, ActiveLeases: 80, PaymentSuccessRate: 95},
			{Month: "2025-04", TotalRevenue: 20000, TotalCosts: 13000, NetProfit: 7000, CarPurchases: 7000, ActiveLeases: 82, PaymentSuccessRate: 96},
			{Month: "2025-05", TotalRevenue: 20000, TotalCosts: 13000, NetProfit: 7000, CarPurchases: 7000, ActiveLeases: 85, PaymentSuccessRate: 95},
		},
		RevenueByType: []models.BreakdownItem{
			{Category: models.CategoryRent, Amount: 48000, Percentage: 80},
			{Category: models.CategoryAdminFee, Amount: 12000, Percentage: 20},
		},
		CostsByType: []models.BreakdownItem{
			{Category: "car_purchases", Amount: 22000, Percentage: 55},
			{Category: "maintenance", Amount: 18000, Percentage: 45},
		},
	}
}

func countByCategory(insights []models.Insight, category string) int {
	n := 0
	for _, in := range insights {
		if in.Category == category {
			n++
		}
	}
	return n
}

func TestGenerateInsightsHealthyDataset(t *testing.T) {
	insights := GenerateInsights(healthyReport())
	if len(insights) != 3 {
		t.Fatalf("got %d insights, want 3: %+v", len(insights), insights)
	}

	if insights[0].Category != models.InsightRevenue || !strings.Contains(insights[0].Message, models.CategoryRent) {
		t.Fatalf("first insight should name rent as top revenue driver: %+v", insights[0])
	}
	if insights[1].Category != models.InsightCosts || !strings.Contains(insights[1].Message, "car_purchases") {
		t.Fatalf("second insight should name car_purchases as top cost: %+v", insights[1])
	}
	if insights[2].Category != models.InsightProfit || insights[2].Priority != models.PriorityLow {
		t.Fatalf("third insight should be the strong-margin note: %+v", insights[2])
	}
}

func TestGenerateInsightsNegativeProfitCause(t *testing.T) {
	data := healthyReport()
	data.Monthly[2].NetProfit = -30000
	data.Monthly[2].CarPurchases = 35000 // > 1.5x the month's 20000 revenue

	insights := GenerateInsights(data)
	var lossInsight *models.Insight
	for i := range insights {
		if insights[i].Category == models.InsightProfit && insights[i].Priority == models.PriorityHigh {
			lossInsight = &insights[i]
			break
		}
	}
	if lossInsight == nil {
		t.Fatalf("no high-priority profit insight in %+v", insights)
	}
	if !strings.Contains(lossInsight.Message, "2025-05") {
		t.Fatalf("loss insight should cite the worst month: %q", lossInsight.Message)
	}
	if !strings.Contains(lossInsight.Message, "car-acquisition") {
		t.Fatalf("loss insight should blame car acquisition costs: %q", lossInsight.Message)
	}
}

func TestGenerateInsightsLowRevenueCause(t *testing.T) {
	data := healthyReport()
	data.Monthly[2].TotalRevenue = 5000 // well under 0.7x of the ~15000 average
	data.Monthly[2].NetProfit = -2000
	data.Monthly[2].CarPurchases = 4000

	insights := GenerateInsights(data)
	found := false
	for _, in := range insights {
		if in.Category == models.InsightProfit && strings.Contains(in.Message, "low revenue") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a low-revenue loss cause in %+v", insights)
	}
}

func TestGenerateInsightsPaymentDeclinePairsRecommendation(t *testing.T) {
	data := healthyReport()
	data.Monthly[1].PaymentSuccessRate = 96
	data.Monthly[2].PaymentSuccessRate = 88 // 8-point drop

	insights := GenerateInsights(data)
	if countByCategory(insights, models.InsightRecommendations) != 1 {
		t.Fatalf("expected exactly one paired recommendation: %+v", insights)
	}
	declineFound := false
	for _, in := range insights {
		if in.Category == models.InsightOperations && strings.Contains(in.Message, "Payment success rate fell") {
			declineFound = true
			if in.Priority != models.PriorityHigh {
				t.Fatalf("decline insight priority = %q, want high", in.Priority)
			}
		}
	}
	if !declineFound {
		t.Fatalf("no payment-decline insight in %+v", insights)
	}
}

func TestGenerateInsightsPaymentDeclineExactlyFivePointsDoesNotFire(t *testing.T) {
	data := healthyReport()
	data.Monthly[1].PaymentSuccessRate = 95
	data.Monthly[2].PaymentSuccessRate = 90 // exactly 5 points, not "exceeds"

	insights := GenerateInsights(data)
	for _, in := range insights {
		if strings.Contains(in.Message, "Payment success rate fell") {
			t.Fatalf("5-point drop must not fire the decline rule: %+v", in)
		}
	}
}

func TestGenerateInsightsCarPurchaseGrowth(t *testing.T) {
	data := healthyReport()
	for i := range data.Monthly {
		data.Monthly[i].CarPurchases = 30000 // 1.5x the 20000 monthly revenue
	}

	insights := GenerateInsights(data)
	found := false
	for _, in := range insights {
		if in.Category == models.InsightCosts && strings.Contains(in.Message, "Car purchases averaged") {
			found = true
			if in.Priority != models.PriorityHigh {
				t.Fatalf("car purchase insight priority = %q, want high", in.Priority)
			}
		}
	}
	if !found {
		t.Fatalf("no car-purchase growth insight in %+v", insights)
	}
	if countByCategory(insights, models.InsightRecommendations) == 0 {
		t.Fatal("car-purchase growth should pair a recommendation")
	}
}

func TestCarPurchaseGrowthRuleQuietOnZeroRevenue(t *testing.T) {
	data := healthyReport()
	for i := range data.Monthly {
		data.Monthly[i].TotalRevenue = 0
		data.Monthly[i].CarPurchases = 30000
	}

	if got := carPurchaseGrowthRule(data); got != nil {
		t.Fatalf("zero revenue baseline must not fire the growth rule: %+v", got)
	}
}

func TestGenerateInsightsThinMarginPairsCostRecommendation(t *testing.T) {
	data := healthyReport()
	data.Stats.TotalProfit = 3000 // 5% margin

	insights := GenerateInsights(data)
	var margin *models.Insight
	for i := range insights {
		if insights[i].Category == models.InsightProfit {
			margin = &insights[i]
		}
	}
	if margin == nil || margin.Priority != models.PriorityMedium {
		t.Fatalf("thin margin should produce a medium profit insight: %+v", insights)
	}
	if countByCategory(insights, models.InsightRecommendations) != 1 {
		t.Fatalf("thin margin should pair one recommendation: %+v", insights)
	}
}

func TestGenerateInsightsLowActiveLeases(t *testing.T) {
	data := healthyReport()
	for i := range data.Monthly {
		data.Monthly[i].ActiveLeases = 30
	}

	insights := GenerateInsights(data)
	found := false
	for _, in := range insights {
		if in.Category == models.InsightOperations && strings.Contains(in.Message, "active leases") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no active-lease insight in %+v", insights)
	}
}

func TestGenerateInsightsIsDeterministic(t *testing.T) {
	data := healthyReport()
	data.Monthly[2].PaymentSuccessRate = 80
	data.Monthly[2].NetProfit = -1000

	first := GenerateInsights(data)
	second := GenerateInsights(data)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("insight lists differ across identical calls:\n%+v\n%+v", first, second)
	}
}

func TestGenerateInsightsNilData(t *testing.T) {
	if got := GenerateInsights(nil); got != nil {
		t.Fatalf("GenerateInsights(nil) = %+v, want nil", got)
	}
}

func kpiReport() *models.KPIInvestorReportData {
	return &models.KPIInvestorReportData{
		FinancialReportData: *healthyReport(),
		Funnel: []models.FunnelStage{
			{Stage: "applied", Count: 25},
			{Stage: "credit_check", Count: 60},
			{Stage: "signed", Count: 10},
		},
		Metrics: []models.MetricChange{
			{Name: "revenue", ChangePct: pctOf(6), Trend: models.TrendUp},
			{Name: "net_profit", ChangePct: pctOf(-9), Trend: models.TrendDown},
		},
		Fleet:   models.FleetStats{TotalVehicles: 100, LeasedVehicles: 90, IdleVehicles: 10, UtilizationRate: 90},
		Reviews: models.ReviewStats{CompletedReviews: 40, PendingReviews: 5},
		Risk:    models.RiskMetrics{PaymentSuccessRate: 95},
	}
}

func TestGenerateExecutiveSummaryRanksAndTruncates(t *testing.T) {
	data := kpiReport()
	// Push the dataset into firing many rules at once.
	data.Monthly[2].NetProfit = -5000
	data.Monthly[2].PaymentSuccessRate = 80
	data.Monthly[1].PaymentSuccessRate = 95
	for i := range data.Monthly {
		data.Monthly[i].ActiveLeases = 20
	}
	data.Fleet.UtilizationRate = 50
	data.Reviews.PendingReviews = 90

	summary := GenerateExecutiveSummary(data)
	if len(summary.Insights) > 8 {
		t.Fatalf("summary holds %d insights, want at most 8", len(summary.Insights))
	}
	if len(summary.Priorities) != 3 {
		t.Fatalf("priorities = %d entries, want 3", len(summary.Priorities))
	}
	for _, p := range summary.Priorities {
		if p.Priority != models.PriorityHigh {
			t.Fatalf("priority list should lead with high findings, got %+v", summary.Priorities)
		}
	}
	for i := 1; i < len(summary.Insights); i++ {
		if priorityRank(summary.Insights[i].Priority) < priorityRank(summary.Insights[i-1].Priority) {
			t.Fatalf("insights not ranked by priority: %+v", summary.Insights)
		}
	}
}

func TestGenerateExecutiveSummaryKPISignals(t *testing.T) {
	summary := GenerateExecutiveSummary(kpiReport())

	var sawBottleneck, sawBest, sawWorst bool
	for _, in := range summary.Insights {
		if strings.Contains(in.Message, "funnel stage") {
			sawBottleneck = true
		}
		if strings.Contains(in.Message, "Best moving metric") {
			sawBest = true
		}
		if strings.Contains(in.Message, "Worst moving metric") {
			sawWorst = true
		}
	}
	if !sawBottleneck || !sawBest || !sawWorst {
		t.Fatalf("missing KPI insights (bottleneck=%v best=%v worst=%v): %+v",
			sawBottleneck, sawBest, sawWorst, summary.Insights)
	}
	if summary.Risk.Level != models.RiskLevelLow {
		t.Fatalf("risk level = %q, want low for the healthy dataset", summary.Risk.Level)
	}
}

func TestGenerateExecutiveSummaryNilData(t *testing.T) {
	summary := GenerateExecutiveSummary(nil)
	if summary.Insights != nil || summary.Priorities != nil {
		t.Fatalf("nil payload summary = %+v, want empty", summary)
	}
}

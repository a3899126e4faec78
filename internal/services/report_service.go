package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"leasing-analytics-service/internal/analytics"
	"leasing-analytics-service/internal/models"
	"leasing-analytics-service/internal/repositories"
)

// ReportService is the reporting-data collaborator: it materializes report
// payloads from storage and runs the analytics engine over them. The engine
// itself stays pure; all I/O happens here.
type ReportService struct {
	monthlyRepo repositories.MonthlyRepository
	invoiceRepo repositories.InvoiceRepository
	paymentRepo repositories.PaymentRepository
	leaseRepo   repositories.LeaseRepository
	logger      *logrus.Logger
}

func NewReportService(
	monthlyRepo repositories.MonthlyRepository,
	invoiceRepo repositories.InvoiceRepository,
	paymentRepo repositories.PaymentRepository,
	leaseRepo repositories.LeaseRepository,
	logger *logrus.Logger,
) *ReportService {
	return &ReportService{
		monthlyRepo: monthlyRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		logger:      logger,
	}
}

// InsightReport bundles the generated findings with the consistency issues
// found in the underlying data.
type InsightReport struct {
	FromMonth string                   `json:"from_month"`
	ToMonth   string                   `json:"to_month"`
	Insights  []models.Insight         `json:"insights"`
	Issues    []models.ValidationIssue `json:"issues"`
}

// ReconciliationReport holds every reconciliation row plus the subset worth
// surfacing as warnings.
type ReconciliationReport struct {
	FromMonth   string                     `json:"from_month"`
	ToMonth     string                     `json:"to_month"`
	Rows        []models.ReconciliationRow `json:"rows"`
	Significant []models.ReconciliationRow `json:"significant"`
}

// BuildFinancialReport loads a month range and computes the aggregate stats
// and breakdowns the engine consumes.
func (s *ReportService) BuildFinancialReport(fromMonth, toMonth string) (*models.FinancialReportData, error) {
	monthly, err := s.monthlyRepo.GetMonthlyRecords(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly records: %w", err)
	}
	invoices, err := s.invoiceRepo.GetInvoicesByMonthRange(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	payments, err := s.paymentRepo.GetPaymentsByMonthRange(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	data := &models.FinancialReportData{
		FromMonth:     fromMonth,
		ToMonth:       toMonth,
		Stats:         buildAggregateStats(monthly),
		Monthly:       monthly,
		Invoices:      invoices,
		Payments:      payments,
		RevenueByType: buildRevenueBreakdown(monthly),
		CostsByType:   buildCostBreakdown(monthly),
	}

	s.logger.WithFields(logrus.Fields{
		"from":     fromMonth,
		"to":       toMonth,
		"months":   len(monthly),
		"invoices": len(invoices),
		"payments": len(payments),
	}).Debug("built financial report")

	return data, nil
}

// BuildKPIReport extends the financial report with funnel, fleet, review,
// and risk figures for the investor summary.
func (s *ReportService) BuildKPIReport(fromMonth, toMonth string) (*models.KPIInvestorReportData, error) {
	financial, err := s.BuildFinancialReport(fromMonth, toMonth)
	if err != nil {
		return nil, err
	}

	funnel, err := s.leaseRepo.GetFunnelStages()
	if err != nil {
		return nil, fmt.Errorf("failed to load funnel stages: %w", err)
	}
	fleet, err := s.leaseRepo.GetFleetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load fleet stats: %w", err)
	}
	reviews, err := s.leaseRepo.GetReviewStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}

	return &models.KPIInvestorReportData{
		FinancialReportData: *financial,
		Funnel:              funnel,
		Metrics:             deriveMetricChanges(financial.Monthly),
		Fleet:               fleet,
		Reviews:             reviews,
		Risk:                deriveRiskMetrics(financial.Invoices, financial.Monthly, time.Now()),
	}, nil
}

// GetInsights generates the financial insight list together with any
// consistency issues in the source data.
func (s *ReportService) GetInsights(fromMonth, toMonth string) (*InsightReport, error) {
	data, err := s.BuildFinancialReport(fromMonth, toMonth)
	if err != nil {
		return nil, err
	}
	return &InsightReport{
		FromMonth: fromMonth,
		ToMonth:   toMonth,
		Insights:  analytics.GenerateInsights(data),
		Issues:    analytics.ValidateFinancialData(data),
	}, nil
}

// GetExecutiveSummary builds the ranked investor summary.
func (s *ReportService) GetExecutiveSummary(fromMonth, toMonth string) (*analytics.ExecutiveSummary, error) {
	data, err := s.BuildKPIReport(fromMonth, toMonth)
	if err != nil {
		return nil, err
	}
	summary := analytics.GenerateExecutiveSummary(data)
	return &summary, nil
}

// GetAgingReport buckets the range's unsettled invoices by days overdue as
// of the supplied reference time.
func (s *ReportService) GetAgingReport(fromMonth, toMonth string, now time.Time) ([]models.AgingBucket, error) {
	invoices, err := s.invoiceRepo.GetInvoicesByMonthRange(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	return analytics.BuildAgingBuckets(invoices, now), nil
}

// GetReconciliationReport compares ledger expectations against recorded
// payments for the range.
func (s *ReportService) GetReconciliationReport(fromMonth, toMonth string) (*ReconciliationReport, error) {
	monthly, err := s.monthlyRepo.GetMonthlyRecords(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly records: %w", err)
	}
	payments, err := s.paymentRepo.GetPaymentsByMonthRange(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	rows := analytics.CalculateReconciliation(payments, monthly)
	return &ReconciliationReport{
		FromMonth:   fromMonth,
		ToMonth:     toMonth,
		Rows:        rows,
		Significant: analytics.SignificantDifferences(rows),
	}, nil
}

// GetRiskScore derives the current risk indicators from the range's invoices
// and latest month and scores them.
func (s *ReportService) GetRiskScore(fromMonth, toMonth string, now time.Time) (*models.RiskScore, error) {
	invoices, err := s.invoiceRepo.GetInvoicesByMonthRange(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	monthly, err := s.monthlyRepo.GetMonthlyRecords(fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly records: %w", err)
	}

	score := analytics.ComputeRiskScore(deriveRiskMetrics(invoices, monthly, now))
	return &score, nil
}

// buildAggregateStats totals the loaded months. Returns zeroed stats (not
// nil) for an empty range so the validator can flag the empty range itself.
func buildAggregateStats(monthly []models.MonthlyFinancialRecord) *models.AggregateStats {
	return &models.AggregateStats{
		TotalRevenue:      analytics.SumBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.TotalRevenue }),
		TotalCosts:        analytics.SumBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.TotalCosts }),
		TotalProfit:       analytics.SumBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.NetProfit }),
		AvgMonthlyRevenue: analytics.AvgBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.TotalRevenue }),
		AvgMonthlyCosts:   analytics.AvgBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.TotalCosts }),
		AvgMonthlyProfit:  analytics.AvgBy(monthly, func(m models.MonthlyFinancialRecord) float64 { return m.NetProfit }),
		MonthCount:        len(monthly),
	}
}

func buildRevenueBreakdown(monthly []models.MonthlyFinancialRecord) []models.BreakdownItem {
	return buildBreakdown([]breakdownSource{
		{models.CategoryRent, func(m models.MonthlyFinancialRecord) float64 { return m.RentPayments }},
		{models.CategoryAdminFee, func(m models.MonthlyFinancialRecord) float64 { return m.AdminFees }},
		{models.CategoryInsurance, func(m models.MonthlyFinancialRecord) float64 { return m.InsuranceIncome }},
		{models.CategoryLateFee, func(m models.MonthlyFinancialRecord) float64 { return m.LateFees }},
		{models.CategoryOther, func(m models.MonthlyFinancialRecord) float64 { return m.OtherRevenue }},
	}, monthly)
}

func buildCostBreakdown(monthly []models.MonthlyFinancialRecord) []models.BreakdownItem {
	return buildBreakdown([]breakdownSource{
		{"car_purchases", func(m models.MonthlyFinancialRecord) float64 { return m.CarPurchases }},
		{"insurance", func(m models.MonthlyFinancialRecord) float64 { return m.InsuranceCosts }},
		{"maintenance", func(m models.MonthlyFinancialRecord) float64 { return m.MaintenanceCosts }},
		{"operations", func(m models.MonthlyFinancialRecord) float64 { return m.OperationsCosts }},
		{"other", func(m models.MonthlyFinancialRecord) float64 { return m.OtherCosts }},
	}, monthly)
}

type breakdownSource struct {
	category string
	sel      func(models.MonthlyFinancialRecord) float64
}

func buildBreakdown(sources []breakdownSource, monthly []models.MonthlyFinancialRecord) []models.BreakdownItem {
	items := make([]models.BreakdownItem, 0, len(sources))
	var total float64
	for _, src := range sources {
		amount := analytics.SumBy(monthly, src.sel)
		total += amount
		items = append(items, models.BreakdownItem{Category: src.category, Amount: amount})
	}
	if total > 0 {
		for i := range items {
			items[i].Percentage = items[i].Amount / total * 100
		}
	}
	return items
}

// deriveMetricChanges compares the two most recent months of the headline
// KPIs. Fewer than two months yields no metrics.
func deriveMetricChanges(monthly []models.MonthlyFinancialRecord) []models.MetricChange {
	if len(monthly) < 2 {
		return nil
	}
	prev := monthly[len(monthly)-2]
	cur := monthly[len(monthly)-1]

	pairs := []struct {
		name     string
		current  float64
		previous float64
	}{
		{"total_revenue", cur.TotalRevenue, prev.TotalRevenue},
		{"total_costs", cur.TotalCosts, prev.TotalCosts},
		{"net_profit", cur.NetProfit, prev.NetProfit},
		{"active_leases", float64(cur.ActiveLeases), float64(prev.ActiveLeases)},
		{"payment_success_rate", cur.PaymentSuccessRate, prev.PaymentSuccessRate},
	}

	metrics := make([]models.MetricChange, 0, len(pairs))
	for _, p := range pairs {
		change := analytics.CalcMoM(p.current, p.previous)
		metrics = append(metrics, models.MetricChange{
			Name:      p.name,
			ChangePct: change.Pct,
			Trend:     analytics.CalcTrend(change.Pct),
		})
	}
	return metrics
}

// deriveRiskMetrics extracts risk indicators from the loaded range: rent
// invoices past due count as late leases, anything unsettled past 60 days is
// treated as a debt-collection case, and the success rate comes from the
// most recent month.
func deriveRiskMetrics(invoices []models.InvoiceRecord, monthly []models.MonthlyFinancialRecord, now time.Time) models.RiskMetrics {
	buckets := analytics.BuildAgingBuckets(invoices, now)

	var metrics models.RiskMetrics
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusUnpaid || inv.Status == models.InvoiceStatusOverdue {
			metrics.UnpaidInvoices++
			if inv.Category == models.CategoryRent && inv.Status == models.InvoiceStatusOverdue {
				metrics.LateLeases++
			}
		}
	}
	for _, b := range buckets {
		if b.MinDays > 60 {
			metrics.DebtCollectionCases += b.Count
		}
	}
	if len(monthly) > 0 {
		metrics.PaymentSuccessRate = monthly[len(monthly)-1].PaymentSuccessRate
	} else {
		metrics.PaymentSuccessRate = 100
	}
	return metrics
}

package analytics

import (
	"strings"
	"testing"

	"leasing-analytics-service/internal/models"
)

func consistentReport() *models.FinancialReportData {
	return &models.FinancialReportData{
		Stats: &models.AggregateStats{
			TotalRevenue: 30000,
			TotalCosts:   20000,
			TotalProfit:  10000,
		},
		Monthly: []models.MonthlyFinancialRecord{
			{Month: "2025-04", TotalRevenue: 14000, TotalCosts: 9000, NetProfit: 5000},
			{Month: "2025-05", TotalRevenue: 16000, TotalCosts: 11000, NetProfit: 5000},
		},
		RevenueByType: []models.BreakdownItem{
			{Category: models.CategoryRent, Amount: 24000, Percentage: 80},
			{Category: models.CategoryAdminFee, Amount: 6000, Percentage: 20},
		},
		CostsByType: []models.BreakdownItem{
			{Category: "car_purchases", Amount: 15000, Percentage: 75},
			{Category: "maintenance", Amount: 5000, Percentage: 25},
		},
	}
}

func TestValidateFinancialDataCleanReport(t *testing.T) {
	issues := ValidateFinancialData(consistentReport())
	if len(issues) != 0 {
		t.Fatalf("clean report produced issues: %+v", issues)
	}
}

func TestValidateFinancialDataNilPayload(t *testing.T) {
	issues := ValidateFinancialData(nil)
	if len(issues) != 1 || issues[0].Severity != models.SeverityError {
		t.Fatalf("nil payload = %+v, want a single error issue", issues)
	}
}

func TestValidateFinancialDataMissingStructure(t *testing.T) {
	data := &models.FinancialReportData{}
	issues := ValidateFinancialData(data)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (missing stats, empty monthly)", len(issues))
	}
	for _, issue := range issues {
		if issue.Severity != models.SeverityError {
			t.Errorf("structural issue severity = %q, want error", issue.Severity)
		}
	}
}

func TestValidateFinancialDataSumMismatch(t *testing.T) {
	data := consistentReport()
	data.Stats.TotalRevenue = 31500 // monthly rows still sum to 30000

	issues := ValidateFinancialData(data)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %+v", len(issues), issues)
	}
	if issues[0].Severity != models.SeverityWarning {
		t.Fatalf("severity = %q, want warning", issues[0].Severity)
	}
	if !strings.Contains(issues[0].Message, "revenue") {
		t.Fatalf("message should name the revenue field: %q", issues[0].Message)
	}
}

func TestValidateFinancialDataSumWithinTolerance(t *testing.T) {
	data := consistentReport()
	data.Stats.TotalCosts = 20000.9 // inside the 1.0 currency-unit tolerance
	if issues := ValidateFinancialData(data); len(issues) != 0 {
		t.Fatalf("tolerated drift still reported: %+v", issues)
	}
}

func TestValidateFinancialDataChecksAreIndependent(t *testing.T) {
	data := consistentReport()
	data.Stats.TotalRevenue = 50000
	data.Stats.TotalProfit = -2
	data.CostsByType[0].Percentage = 60 // breakdown now sums to 85

	issues := ValidateFinancialData(data)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3 independent warnings: %+v", len(issues), issues)
	}
}

func TestValidatePercentages(t *testing.T) {
	withinTolerance := []models.BreakdownItem{{Percentage: 60}, {Percentage: 39.7}}
	check := ValidatePercentages(withinTolerance)
	if !check.OK || !almostEqual(check.Sum, 99.7) || !almostEqual(check.Diff, 0.3) {
		t.Fatalf("check = %+v, want ok with sum 99.7 diff 0.3", check)
	}

	offByTen := []models.BreakdownItem{{Percentage: 60}, {Percentage: 30}}
	check = ValidatePercentages(offByTen)
	if check.OK || !almostEqual(check.Diff, 10) {
		t.Fatalf("check = %+v, want not ok with diff 10", check)
	}
}

package analytics

import (
	"fmt"
	"math"

	"leasing-analytics-service/internal/models"
)

const (
	// Monthly sums may drift from range totals by at most one currency unit.
	SumTolerance = 1.0
	// Breakdown percentages may miss 100 by at most half a point.
	PercentageTolerance = 0.5
)

// PercentageCheck is the outcome of a breakdown percentage-sum check.
type PercentageCheck struct {
	Sum  float64 `json:"sum"`
	Diff float64 `json:"diff"`
	OK   bool    `json:"ok"`
}

// ValidatePercentages verifies that a breakdown's percentages sum to 100
// within tolerance.
func ValidatePercentages(items []models.BreakdownItem) PercentageCheck {
	sum := SumBy(items, func(b models.BreakdownItem) float64 { return b.Percentage })
	diff := math.Abs(100 - sum)
	return PercentageCheck{Sum: sum, Diff: diff, OK: diff <= PercentageTolerance}
}

// ValidateFinancialData runs the full battery of consistency checks over a
// report payload and returns every issue found. Checks are independent; a
// failing check never blocks the rest, and nothing here panics. Missing
// required structure is an error, a tolerance violation is a warning.
func ValidateFinancialData(data *models.FinancialReportData) []models.ValidationIssue {
	if data == nil {
		return []models.ValidationIssue{{
			Severity: models.SeverityError,
			Message:  "financial report data is missing",
		}}
	}

	var issues []models.ValidationIssue

	if data.Stats == nil {
		issues = append(issues, models.ValidationIssue{
			Severity: models.SeverityError,
			Message:  "aggregate stats are missing from report data",
		})
	}
	if len(data.Monthly) == 0 {
		issues = append(issues, models.ValidationIssue{
			Severity: models.SeverityError,
			Message:  "monthly financial data is empty",
		})
	}

	if data.Stats != nil && len(data.Monthly) > 0 {
		issues = append(issues, checkMonthlySum(data.Monthly, "revenue", data.Stats.TotalRevenue,
			func(m models.MonthlyFinancialRecord) float64 { return m.TotalRevenue })...)
		issues = append(issues, checkMonthlySum(data.Monthly, "costs", data.Stats.TotalCosts,
			func(m models.MonthlyFinancialRecord) float64 { return m.TotalCosts })...)
		issues = append(issues, checkMonthlySum(data.Monthly, "profit", data.Stats.TotalProfit,
			func(m models.MonthlyFinancialRecord) float64 { return m.NetProfit })...)
	}

	if len(data.RevenueByType) > 0 {
		if check := ValidatePercentages(data.RevenueByType); !check.OK {
			issues = append(issues, models.ValidationIssue{
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("revenue breakdown percentages sum to %.2f instead of 100 (off by %.2f)",
					check.Sum, check.Diff),
			})
		}
	}
	if len(data.CostsByType) > 0 {
		if check := ValidatePercentages(data.CostsByType); !check.OK {
			issues = append(issues, models.ValidationIssue{
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("cost breakdown percentages sum to %.2f instead of 100 (off by %.2f)",
					check.Sum, check.Diff),
			})
		}
	}

	return issues
}

func checkMonthlySum(monthly []models.MonthlyFinancialRecord, name string, total float64, sel func(models.MonthlyFinancialRecord) float64) []models.ValidationIssue {
	sum := SumBy(monthly, sel)
	diff := math.Abs(sum - total)
	if diff <= SumTolerance {
		return nil
	}
	return []models.ValidationIssue{{
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("monthly %s sums to %.2f but range total is %.2f (off by %.2f)",
			name, sum, total, diff),
	}}
}

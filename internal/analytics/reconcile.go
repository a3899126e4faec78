package analytics

import (
	"math"

	"leasing-analytics-service/internal/models"
)

// Rows beyond this percentage difference are surfaced as warnings.
const SignificantDiffPct = 5.0

// Categories subject to ledger-vs-payments reconciliation. Late fees and
// miscellaneous income are out of reconciliation scope.
var reconcilableCategories = []string{
	models.CategoryRent,
	models.CategoryAdminFee,
	models.CategoryInsurance,
}

// CalculateReconciliation compares the ledger-expected amount for each
// reconcilable category of each month against the payments actually recorded
// for that category and month. One row is produced per (month, category)
// pair; rows are never aggregated across months or categories.
func CalculateReconciliation(payments []models.PaymentRecord, monthly []models.MonthlyFinancialRecord) []models.ReconciliationRow {
	byMonth := GroupByMonth(payments, func(p models.PaymentRecord) string { return p.Month })

	var rows []models.ReconciliationRow
	for _, rec := range monthly {
		monthPayments := byMonth[rec.Month]
		for _, category := range reconcilableCategories {
			expected := expectedForCategory(rec, category)
			actual := SumBy(monthPayments, func(p models.PaymentRecord) float64 {
				if p.Category != category {
					return 0
				}
				return p.Amount
			})

			diff := actual - expected
			// A zero expected amount yields a 0 percentage here, unlike
			// CalcMoM which reports nil on a zero baseline. Both behaviors
			// are load-bearing for downstream thresholds; keep them apart.
			var diffPct float64
			if expected != 0 {
				diffPct = diff / expected * 100
			}

			rows = append(rows, models.ReconciliationRow{
				Month:    rec.Month,
				Category: category,
				Expected: expected,
				Actual:   actual,
				Diff:     diff,
				DiffPct:  diffPct,
			})
		}
	}

	return rows
}

// SignificantDifferences filters reconciliation rows whose percentage
// difference exceeds the significance threshold in either direction.
func SignificantDifferences(rows []models.ReconciliationRow) []models.ReconciliationRow {
	var significant []models.ReconciliationRow
	for _, row := range rows {
		if math.Abs(row.DiffPct) > SignificantDiffPct {
			significant = append(significant, row)
		}
	}
	return significant
}

func expectedForCategory(rec models.MonthlyFinancialRecord, category string) float64 {
	switch category {
	case models.CategoryRent:
		return rec.RentPayments
	case models.CategoryAdminFee:
		return rec.AdminFees
	case models.CategoryInsurance:
		return rec.InsuranceIncome
	}
	return 0
}

package analytics

import "leasing-analytics-service/internal/models"

// Penalty weights and caps per risk indicator.
const (
	lateLeaseWeight = 5.0
	lateLeaseCap    = 30.0

	unpaidInvoiceWeight = 2.0
	unpaidInvoiceCap    = 25.0

	debtCaseWeight = 5.0
	debtCaseCap    = 25.0

	shortfallCap = 20.0

	maxRiskScore = 100.0

	mediumRiskThreshold = 30.0
	highRiskThreshold   = 70.0
)

// ComputeRiskScore combines independent risk indicators into one bounded
// score with a qualitative level. Each indicator's penalty is capped on its
// own before the capped sum; a score of exactly 30 is already medium.
func ComputeRiskScore(m models.RiskMetrics) models.RiskScore {
	score := capped(float64(m.LateLeases)*lateLeaseWeight, lateLeaseCap)
	score += capped(float64(m.UnpaidInvoices)*unpaidInvoiceWeight, unpaidInvoiceCap)
	score += capped(float64(m.DebtCollectionCases)*debtCaseWeight, debtCaseCap)

	shortfall := 100 - m.PaymentSuccessRate
	if shortfall < 0 {
		shortfall = 0
	}
	score += capped(shortfall, shortfallCap)

	if score > maxRiskScore {
		score = maxRiskScore
	}

	switch {
	case score < mediumRiskThreshold:
		return models.RiskScore{
			Score:       score,
			Level:       models.RiskLevelLow,
			Description: "Portfolio risk is under control.",
		}
	case score < highRiskThreshold:
		return models.RiskScore{
			Score:       score,
			Level:       models.RiskLevelMedium,
			Description: "Portfolio risk requires active monitoring.",
		}
	default:
		return models.RiskScore{
			Score:       score,
			Level:       models.RiskLevelHigh,
			Description: "Portfolio risk is high, immediate action required.",
		}
	}
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

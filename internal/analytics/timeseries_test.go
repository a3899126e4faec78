package analytics

import (
	"testing"

	"leasing-analytics-service/internal/models"
)

func pctOf(v float64) *float64 { return &v }

func TestCalcMoM(t *testing.T) {
	change := CalcMoM(110, 100)
	if !almostEqual(change.Diff, 10) {
		t.Fatalf("Diff = %v, want 10", change.Diff)
	}
	if change.Pct == nil || !almostEqual(*change.Pct, 10) {
		t.Fatalf("Pct = %v, want 10", change.Pct)
	}
}

func TestCalcMoMZeroBaselineIsUndefined(t *testing.T) {
	change := CalcMoM(50, 0)
	if change.Pct != nil {
		t.Fatalf("Pct = %v, want nil on zero baseline", *change.Pct)
	}
	if !almostEqual(change.Diff, 50) {
		t.Fatalf("Diff = %v, want 50", change.Diff)
	}
}

func TestCalcMoMNegativeBaseline(t *testing.T) {
	// The denominator is the absolute previous value, so a recovery from a
	// negative baseline reads as a positive change.
	change := CalcMoM(-50, -100)
	if change.Pct == nil || !almostEqual(*change.Pct, 50) {
		t.Fatalf("Pct = %v, want 50", change.Pct)
	}
}

func TestCalcTrend(t *testing.T) {
	cases := []struct {
		pct  *float64
		want string
	}{
		{nil, models.TrendFlat},
		{pctOf(0.5), models.TrendFlat},
		{pctOf(-0.99), models.TrendFlat},
		{pctOf(1.0), models.TrendUp},
		{pctOf(12), models.TrendUp},
		{pctOf(-3), models.TrendDown},
	}
	for _, c := range cases {
		if got := CalcTrend(c.pct); got != c.want {
			t.Errorf("CalcTrend(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestFindBestAndWorstMetric(t *testing.T) {
	metrics := []models.MetricChange{
		{Name: "revenue", ChangePct: pctOf(4), Trend: models.TrendUp},
		{Name: "costs", ChangePct: pctOf(9), Trend: models.TrendUp},
		{Name: "profit", ChangePct: pctOf(-12), Trend: models.TrendDown},
		{Name: "success_rate", ChangePct: pctOf(-2), Trend: models.TrendDown},
		{Name: "leases", ChangePct: nil, Trend: models.TrendFlat},
	}

	best := FindBestMetric(metrics)
	if best == nil || best.Name != "costs" {
		t.Fatalf("best = %+v, want costs", best)
	}
	worst := FindWorstMetric(metrics)
	if worst == nil || worst.Name != "profit" {
		t.Fatalf("worst = %+v, want profit", worst)
	}
}

func TestFindBestMetricNoGainers(t *testing.T) {
	metrics := []models.MetricChange{
		{Name: "revenue", ChangePct: pctOf(-4), Trend: models.TrendDown},
	}
	if got := FindBestMetric(metrics); got != nil {
		t.Fatalf("best = %+v, want nil", got)
	}
	if got := FindWorstMetric(nil); got != nil {
		t.Fatalf("worst of nil = %+v, want nil", got)
	}
}

func TestFindFunnelBottleneck(t *testing.T) {
	stages := []models.FunnelStage{
		{Stage: "applied", Count: 12},
		{Stage: "credit_check", Count: 40},
		{Stage: "contract_sent", Count: 40},
		{Stage: "signed", Count: 7},
	}
	got := FindFunnelBottleneck(stages)
	if got == nil || got.Stage != "credit_check" {
		t.Fatalf("bottleneck = %+v, want credit_check (first of the tie)", got)
	}
	if FindFunnelBottleneck(nil) != nil {
		t.Fatal("bottleneck of empty funnel should be nil")
	}
}

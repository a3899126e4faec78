package analytics

import (
	"math"

	"leasing-analytics-service/internal/models"
)

// Changes smaller than this (in percent) count as flat.
const FlatTrendThreshold = 1.0

// MoMChange is the month-over-month delta between two numeric snapshots.
// Pct is nil when the previous value was 0: the change is undefined, which is
// not the same as a zero-percent change.
type MoMChange struct {
	Diff float64  `json:"diff"`
	Pct  *float64 `json:"pct"`
}

// CalcMoM compares current against previous.
func CalcMoM(current, previous float64) MoMChange {
	diff := current - previous
	if previous == 0 {
		return MoMChange{Diff: diff}
	}
	pct := diff / math.Abs(previous) * 100
	return MoMChange{Diff: diff, Pct: &pct}
}

// CalcTrend classifies a percentage change as up, down, or flat. A nil
// percentage (undefined baseline) is flat.
func CalcTrend(pct *float64) string {
	if pct == nil || math.Abs(*pct) < FlatTrendThreshold {
		return models.TrendFlat
	}
	if *pct > 0 {
		return models.TrendUp
	}
	return models.TrendDown
}

// FindBestMetric returns the metric with the largest positive change among
// those already trending up, or nil when none is improving.
func FindBestMetric(metrics []models.MetricChange) *models.MetricChange {
	var best *models.MetricChange
	for i := range metrics {
		m := &metrics[i]
		if m.Trend != models.TrendUp || m.ChangePct == nil {
			continue
		}
		if best == nil || *m.ChangePct > *best.ChangePct {
			best = m
		}
	}
	return best
}

// FindWorstMetric returns the metric with the largest negative change among
// those trending down, or nil when none is declining.
func FindWorstMetric(metrics []models.MetricChange) *models.MetricChange {
	var worst *models.MetricChange
	for i := range metrics {
		m := &metrics[i]
		if m.Trend != models.TrendDown || m.ChangePct == nil {
			continue
		}
		if worst == nil || *m.ChangePct < *worst.ChangePct {
			worst = m
		}
	}
	return worst
}

// FindFunnelBottleneck returns the funnel stage holding the most leads, or
// nil for an empty funnel. First stage wins on ties.
func FindFunnelBottleneck(stages []models.FunnelStage) *models.FunnelStage {
	var bottleneck *models.FunnelStage
	for i := range stages {
		s := &stages[i]
		if bottleneck == nil || s.Count > bottleneck.Count {
			bottleneck = s
		}
	}
	return bottleneck
}

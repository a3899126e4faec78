package analytics

import (
	"math"
	"sort"
)

// SumBy sums sel over items. A nil or empty slice sums to 0, and NaN or
// infinite selector results count as 0 so one bad record cannot poison an
// aggregate.
func SumBy[T any](items []T, sel func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += sanitize(sel(item))
	}
	return total
}

// AvgBy returns the mean of sel over items, 0 when items is empty.
func AvgBy[T any](items []T, sel func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return SumBy(items, sel) / float64(len(items))
}

// GroupByMonth partitions items by their month key, preserving input order
// within each group. Items with an empty key are dropped.
func GroupByMonth[T any](items []T, monthOf func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		key := monthOf(item)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], item)
	}
	return groups
}

// TopN returns the n items with the largest sel values, descending. Ties keep
// their original relative order. The input slice is not modified.
func TopN[T any](items []T, sel func(T) float64, n int) []T {
	if n <= 0 || len(items) == 0 {
		return nil
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sanitize(sel(sorted[i])) > sanitize(sel(sorted[j]))
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

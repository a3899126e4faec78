package analytics

import (
	"time"

	"leasing-analytics-service/internal/models"
)

// Fixed overdue ranges, inclusive on both ends. Max 0 means no upper bound.
var agingRanges = []struct {
	label string
	min   int
	max   int
}{
	{"1-7", 1, 7},
	{"8-30", 8, 30},
	{"31-60", 31, 60},
	{"61+", 61, 0},
}

// BuildAgingBuckets classifies unsettled invoices by how many days overdue
// they are relative to now. Paid invoices and invoices not yet past due are
// skipped. The result always contains the full fixed bucket set, even when
// every bucket is empty.
func BuildAgingBuckets(invoices []models.InvoiceRecord, now time.Time) []models.AgingBucket {
	buckets := make([]models.AgingBucket, len(agingRanges))
	for i, r := range agingRanges {
		buckets[i] = models.AgingBucket{Label: r.label, MinDays: r.min, MaxDays: r.max}
	}

	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			continue
		}
		days := daysOverdue(inv.DueDate, now)
		if days <= 0 {
			continue
		}
		for i, r := range agingRanges {
			if days >= r.min && (r.max == 0 || days <= r.max) {
				buckets[i].Count++
				buckets[i].Amount += inv.Amount
				break
			}
		}
	}

	return buckets
}

// daysOverdue is the whole-day difference between the due date and now,
// truncated toward zero. An unparseable due date counts as 0 days overdue.
func daysOverdue(dueDate string, now time.Time) int {
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

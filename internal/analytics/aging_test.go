package analytics

import (
	"testing"
	"time"

	"leasing-analytics-service/internal/models"
)

var agingNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func bucketByLabel(t *testing.T, buckets []models.AgingBucket, label string) models.AgingBucket {
	t.Helper()
	for _, b := range buckets {
		if b.Label == label {
			return b
		}
	}
	t.Fatalf("no bucket labeled %q", label)
	return models.AgingBucket{}
}

func TestBuildAgingBucketsReturnsFullFixedSet(t *testing.T) {
	buckets := BuildAgingBuckets(nil, agingNow)
	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(buckets))
	}
	want := []string{"1-7", "8-30", "31-60", "61+"}
	for i, label := range want {
		if buckets[i].Label != label {
			t.Errorf("bucket %d label = %q, want %q", i, buckets[i].Label, label)
		}
		if buckets[i].Count != 0 || buckets[i].Amount != 0 {
			t.Errorf("bucket %q not empty: %+v", label, buckets[i])
		}
	}
}

func TestBuildAgingBucketsClassifiesOverdueInvoice(t *testing.T) {
	invoices := []models.InvoiceRecord{
		{InvoiceID: "INV-1", Amount: 5000, DueDate: "2025-06-05", Status: models.InvoiceStatusUnpaid},
	}
	buckets := BuildAgingBuckets(invoices, agingNow)

	b := bucketByLabel(t, buckets, "8-30")
	if b.Count != 1 || !almostEqual(b.Amount, 5000) {
		t.Fatalf("8-30 bucket = %+v, want count 1 amount 5000", b)
	}
}

func TestBuildAgingBucketsSkipsPaidAndFutureInvoices(t *testing.T) {
	invoices := []models.InvoiceRecord{
		{InvoiceID: "paid-old", Amount: 900, DueDate: "2025-03-07", Status: models.InvoiceStatusPaid, PaidDate: "2025-03-10"},
		{InvoiceID: "not-due", Amount: 700, DueDate: "2025-07-01", Status: models.InvoiceStatusUnpaid},
		{InvoiceID: "due-today", Amount: 300, DueDate: "2025-06-15", Status: models.InvoiceStatusUnpaid},
	}
	buckets := BuildAgingBuckets(invoices, agingNow)
	for _, b := range buckets {
		if b.Count != 0 {
			t.Fatalf("bucket %q picked up a skipped invoice: %+v", b.Label, b)
		}
	}
}

func TestBuildAgingBucketsBoundaries(t *testing.T) {
	invoices := []models.InvoiceRecord{
		{InvoiceID: "one-day", Amount: 100, DueDate: "2025-06-14", Status: models.InvoiceStatusOverdue},
		{InvoiceID: "seven-days", Amount: 200, DueDate: "2025-06-08", Status: models.InvoiceStatusOverdue},
		{InvoiceID: "eight-days", Amount: 400, DueDate: "2025-06-07", Status: models.InvoiceStatusOverdue},
		{InvoiceID: "sixty-one", Amount: 800, DueDate: "2025-04-15", Status: models.InvoiceStatusOverdue},
		{InvoiceID: "ancient", Amount: 1600, DueDate: "2024-01-01", Status: models.InvoiceStatusOverdue},
	}
	buckets := BuildAgingBuckets(invoices, agingNow)

	if b := bucketByLabel(t, buckets, "1-7"); b.Count != 2 || !almostEqual(b.Amount, 300) {
		t.Fatalf("1-7 = %+v, want count 2 amount 300", b)
	}
	if b := bucketByLabel(t, buckets, "8-30"); b.Count != 1 || !almostEqual(b.Amount, 400) {
		t.Fatalf("8-30 = %+v, want count 1 amount 400", b)
	}
	if b := bucketByLabel(t, buckets, "61+"); b.Count != 2 || !almostEqual(b.Amount, 2400) {
		t.Fatalf("61+ = %+v, want count 2 amount 2400", b)
	}
}

func TestBuildAgingBucketsBadDueDate(t *testing.T) {
	invoices := []models.InvoiceRecord{
		{InvoiceID: "garbled", Amount: 500, DueDate: "not-a-date", Status: models.InvoiceStatusUnpaid},
	}
	buckets := BuildAgingBuckets(invoices, agingNow)
	for _, b := range buckets {
		if b.Count != 0 {
			t.Fatalf("unparseable due date should contribute nothing, got %+v", b)
		}
	}
}

package models

import "time"

// MonthlyFinancialRecord is one closed calendar month of the leasing ledger.
// Month keys use the YYYY-MM format throughout the service.
type MonthlyFinancialRecord struct {
	ID    int64  `db:"id" json:"-"`
	Month string `db:"month" json:"month"`

	RentPayments    float64 `db:"rent_payments" json:"rent_payments"`
	AdminFees       float64 `db:"admin_fees" json:"admin_fees"`
	InsuranceIncome float64 `db:"insurance_income" json:"insurance_income"`
	LateFees        float64 `db:"late_fees" json:"late_fees"`
	OtherRevenue    float64 `db:"other_revenue" json:"other_revenue"`
	TotalRevenue    float64 `db:"total_revenue" json:"total_revenue"`

	CarPurchases     float64 `db:"car_purchases" json:"car_purchases"`
	CarPurchaseCount int     `db:"car_purchase_count" json:"car_purchase_count"`
	InsuranceCosts   float64 `db:"insurance_costs" json:"insurance_costs"`
	MaintenanceCosts float64 `db:"maintenance_costs" json:"maintenance_costs"`
	OperationsCosts  float64 `db:"operations_costs" json:"operations_costs"`
	OtherCosts       float64 `db:"other_costs" json:"other_costs"`
	TotalCosts       float64 `db:"total_costs" json:"total_costs"`

	GrossProfit  float64 `db:"gross_profit" json:"gross_profit"`
	NetProfit    float64 `db:"net_profit" json:"net_profit"`
	ProfitMargin float64 `db:"profit_margin" json:"profit_margin"`

	ActiveLeases int `db:"active_leases" json:"active_leases"`
	NewLeases    int `db:"new_leases" json:"new_leases"`
	EndedLeases  int `db:"ended_leases" json:"ended_leases"`

	AvgRentPayment     float64 `db:"avg_rent_payment" json:"avg_rent_payment"`
	PaymentSuccessRate float64 `db:"payment_success_rate" json:"payment_success_rate"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AggregateStats holds totals and per-month averages over a reporting range.
type AggregateStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalCosts        float64 `json:"total_costs"`
	TotalProfit       float64 `json:"total_profit"`
	AvgMonthlyRevenue float64 `json:"avg_monthly_revenue"`
	AvgMonthlyCosts   float64 `json:"avg_monthly_costs"`
	AvgMonthlyProfit  float64 `json:"avg_monthly_profit"`
	MonthCount        int     `json:"month_count"`
}

// BreakdownItem is one labeled slice of a revenue or cost breakdown.
type BreakdownItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// InvoiceRecord is a billed amount owed by a lessee. PaidDate is empty until
// the invoice is settled; dates use the YYYY-MM-DD format.
type InvoiceRecord struct {
	ID        int64   `db:"id" json:"id"`
	InvoiceID string  `db:"invoice_id" json:"invoice_id"`
	Amount    float64 `db:"amount" json:"amount"`
	DueDate   string  `db:"due_date" json:"due_date"`
	PaidDate  string  `db:"paid_date" json:"paid_date,omitempty"`
	Status    string  `db:"status" json:"status"`
	Category  string  `db:"category" json:"category"`
	Month     string  `db:"month" json:"month"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// PaymentRecord is money actually received. Payments are not linked to
// invoices by id; reconciliation works per category and month.
type PaymentRecord struct {
	ID          int64   `db:"id" json:"id"`
	PaymentID   string  `db:"payment_id" json:"payment_id"`
	Amount      float64 `db:"amount" json:"amount"`
	PaymentDate string  `db:"payment_date" json:"payment_date"`
	Category    string  `db:"category" json:"category"`
	Month       string  `db:"month" json:"month"`
	Status      string  `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AgingBucket is one day-overdue range of unsettled invoices. MaxDays is 0
// for the open-ended last bucket.
type AgingBucket struct {
	Label   string  `json:"label"`
	MinDays int     `json:"min_days"`
	MaxDays int     `json:"max_days"`
	Count   int     `json:"count"`
	Amount  float64 `json:"amount"`
}

// ReconciliationRow compares ledger-expected income against recorded payments
// for one (month, category) pair. Rows are recomputed per call, never stored.
type ReconciliationRow struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Diff     float64 `json:"diff"`
	DiffPct  float64 `json:"diff_pct"`
}

// RiskMetrics are the raw indicators consumed by the risk scorer.
type RiskMetrics struct {
	LateLeases          int     `json:"late_leases"`
	UnpaidInvoices      int     `json:"unpaid_invoices"`
	DebtCollectionCases int     `json:"debt_collection_cases"`
	PaymentSuccessRate  float64 `json:"payment_success_rate"`
}

// RiskScore is the bounded composite score derived from RiskMetrics.
type RiskScore struct {
	Score       float64 `json:"score"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
}

// Insight is a generated, human-readable finding.
type Insight struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// ValidationIssue reports an internal inconsistency in computed aggregates.
type ValidationIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// MetricChange is a named KPI with a pre-computed month-over-month change.
// ChangePct is nil when the previous period had a zero baseline.
type MetricChange struct {
	Name      string   `json:"name"`
	ChangePct *float64 `json:"change_pct"`
	Trend     string   `json:"trend"`
}

// FunnelStage is one stage of the lease-acquisition funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// FleetStats summarizes the vehicle fleet at report time.
type FleetStats struct {
	TotalVehicles   int     `json:"total_vehicles"`
	LeasedVehicles  int     `json:"leased_vehicles"`
	IdleVehicles    int     `json:"idle_vehicles"`
	UtilizationRate float64 `json:"utilization_rate"`
}

// ReviewStats summarizes technician vehicle reviews.
type ReviewStats struct {
	CompletedReviews  int     `json:"completed_reviews"`
	PendingReviews    int     `json:"pending_reviews"`
	AvgTurnaroundDays float64 `json:"avg_turnaround_days"`
}

// FinancialReportData is the payload the analytics engine consumes for the
// financial dashboard.
type FinancialReportData struct {
	FromMonth     string                   `json:"from_month"`
	ToMonth       string                   `json:"to_month"`
	Stats         *AggregateStats          `json:"stats"`
	Monthly       []MonthlyFinancialRecord `json:"monthly"`
	Invoices      []InvoiceRecord          `json:"invoices"`
	Payments      []PaymentRecord          `json:"payments"`
	RevenueByType []BreakdownItem          `json:"revenue_by_type"`
	CostsByType   []BreakdownItem          `json:"costs_by_type"`
}

// KPIInvestorReportData extends the financial payload with funnel, fleet,
// review, and risk figures for the investor-facing summary.
type KPIInvestorReportData struct {
	FinancialReportData
	Funnel  []FunnelStage  `json:"funnel"`
	Metrics []MetricChange `json:"metrics"`
	Fleet   FleetStats     `json:"fleet"`
	Reviews ReviewStats    `json:"reviews"`
	Risk    RiskMetrics    `json:"risk"`
}

// Invoice status constants
const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusOverdue = "overdue"
)

// Revenue category constants
const (
	CategoryRent      = "rent"
	CategoryAdminFee  = "admin_fee"
	CategoryInsurance = "insurance"
	CategoryLateFee   = "late_fee"
	CategoryOther     = "other"
)

// Insight category constants
const (
	InsightRevenue         = "revenue"
	InsightCosts           = "costs"
	InsightProfit          = "profit"
	InsightOperations      = "operations"
	InsightRecommendations = "recommendations"
)

// Insight priority constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Validation severity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Risk level constants
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// Trend constants
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"leasing-analytics-service/internal/models"
	"leasing-analytics-service/internal/repositories"
)

// IngestionService loads batches of monthly ledger records, invoices and
// payments into storage. Every record in a batch is validated before any
// insert runs; a batch with invalid records never reaches the database, so
// the reported count reflects only rows that actually persisted.
type IngestionService struct {
	db          *sql.DB
	monthlyRepo repositories.MonthlyRepository
	invoiceRepo repositories.InvoiceRepository
	paymentRepo repositories.PaymentRepository
	logger      *logrus.Logger
}

func NewIngestionService(
	db *sql.DB,
	monthlyRepo repositories.MonthlyRepository,
	invoiceRepo repositories.InvoiceRepository,
	paymentRepo repositories.PaymentRepository,
	logger *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		db:          db,
		monthlyRepo: monthlyRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

type InvoiceInput struct {
	InvoiceID string  `json:"invoice_id"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"`
	PaidDate  string  `json:"paid_date,omitempty"`
	Status    string  `json:"status"`
	Category  string  `json:"category"`
	Month     string  `json:"month"`
}

type PaymentInput struct {
	PaymentID   string  `json:"payment_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Category    string  `json:"category"`
	Month       string  `json:"month"`
	Status      string  `json:"status,omitempty"`
}

type IngestionResult struct {
	Success      bool     `json:"success"`
	RecordsCount int      `json:"records_count"`
	Errors       []string `json:"errors,omitempty"`
}

// IngestMonthlyRecords loads a batch of monthly ledger rows. The JSON shape
// matches the monthly financial record itself, so the dashboard exporter can
// post its rows unchanged.
func (s *IngestionService) IngestMonthlyRecords(inputs []models.MonthlyFinancialRecord) (*IngestionResult, error) {
	result := &IngestionResult{}

	for i, input := range inputs {
		if err := validateMonthlyInput(input); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid monthly record %d (%s): %v", i, input.Month, err))
		}
	}
	if len(result.Errors) > 0 {
		s.logger.WithFields(logrus.Fields{
			"total":  len(inputs),
			"failed": len(result.Errors),
		}).Warn("monthly ledger batch rejected")
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range inputs {
		if err := s.monthlyRepo.InsertMonthlyRecord(tx, &inputs[i]); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to insert monthly record %s: %v", inputs[i].Month, err))
			return result, nil
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	result.Success = true
	result.RecordsCount = len(inputs)

	s.logger.WithFields(logrus.Fields{
		"total":     len(inputs),
		"persisted": result.RecordsCount,
	}).Info("monthly ledger ingestion finished")

	return result, nil
}

func (s *IngestionService) IngestInvoices(inputs []InvoiceInput) (*IngestionResult, error) {
	result := &IngestionResult{}

	invoices := make([]*models.InvoiceRecord, 0, len(inputs))
	for _, input := range inputs {
		if err := validateInvoiceInput(input); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid invoice %s: %v", input.InvoiceID, err))
			continue
		}
		invoices = append(invoices, &models.InvoiceRecord{
			InvoiceID: input.InvoiceID,
			Amount:    input.Amount,
			DueDate:   input.DueDate,
			PaidDate:  input.PaidDate,
			Status:    input.Status,
			Category:  input.Category,
			Month:     input.Month,
		})
	}
	if len(result.Errors) > 0 {
		s.logger.WithFields(logrus.Fields{
			"total":  len(inputs),
			"failed": len(result.Errors),
		}).Warn("invoice batch rejected")
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, inv := range invoices {
		if err := s.invoiceRepo.InsertInvoice(tx, inv); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to insert invoice %s: %v", inv.InvoiceID, err))
			return result, nil
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	result.Success = true
	result.RecordsCount = len(invoices)

	s.logger.WithFields(logrus.Fields{
		"total":     len(inputs),
		"persisted": result.RecordsCount,
	}).Info("invoice ingestion finished")

	return result, nil
}

func (s *IngestionService) IngestPayments(inputs []PaymentInput) (*IngestionResult, error) {
	result := &IngestionResult{}

	payments := make([]*models.PaymentRecord, 0, len(inputs))
	for _, input := range inputs {
		if err := validatePaymentInput(input); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid payment %s: %v", input.PaymentID, err))
			continue
		}
		payments = append(payments, &models.PaymentRecord{
			PaymentID:   input.PaymentID,
			Amount:      input.Amount,
			PaymentDate: input.PaymentDate,
			Category:    input.Category,
			Month:       input.Month,
			Status:      input.Status,
		})
	}
	if len(result.Errors) > 0 {
		s.logger.WithFields(logrus.Fields{
			"total":  len(inputs),
			"failed": len(result.Errors),
		}).Warn("payment batch rejected")
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, payment := range payments {
		if err := s.paymentRepo.InsertPayment(tx, payment); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to insert payment %s: %v", payment.PaymentID, err))
			return result, nil
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	result.Success = true
	result.RecordsCount = len(payments)

	s.logger.WithFields(logrus.Fields{
		"total":     len(inputs),
		"persisted": result.RecordsCount,
	}).Info("payment ingestion finished")

	return result, nil
}

// SettleInvoice records a payment date against an unpaid invoice and flips
// its status to paid. Callers validate the paid date format.
func (s *IngestionService) SettleInvoice(invoiceID, paidDate string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.invoiceRepo.MarkInvoicePaid(tx, invoiceID, paidDate); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id": invoiceID,
		"paid_date":  paidDate,
	}).Info("invoice settled")
	return nil
}

func validateMonthlyInput(rec models.MonthlyFinancialRecord) error {
	if _, err := time.Parse("2006-01", rec.Month); err != nil {
		return fmt.Errorf("month must use the YYYY-MM format")
	}
	if rec.TotalRevenue < 0 {
		return fmt.Errorf("total_revenue must not be negative")
	}
	if rec.TotalCosts < 0 {
		return fmt.Errorf("total_costs must not be negative")
	}
	if rec.ActiveLeases < 0 || rec.NewLeases < 0 || rec.EndedLeases < 0 {
		return fmt.Errorf("lease counts must not be negative")
	}
	if rec.CarPurchaseCount < 0 {
		return fmt.Errorf("car_purchase_count must not be negative")
	}
	if rec.PaymentSuccessRate < 0 || rec.PaymentSuccessRate > 100 {
		return fmt.Errorf("payment_success_rate must be between 0 and 100")
	}
	return nil
}

func validateInvoiceInput(input InvoiceInput) error {
	if input.InvoiceID == "" {
		return fmt.Errorf("invoice_id is required")
	}
	if input.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if _, err := time.Parse("2006-01-02", input.DueDate); err != nil {
		return fmt.Errorf("due_date must use the YYYY-MM-DD format")
	}
	if input.PaidDate != "" {
		if _, err := time.Parse("2006-01-02", input.PaidDate); err != nil {
			return fmt.Errorf("paid_date must use the YYYY-MM-DD format")
		}
	}
	switch input.Status {
	case models.InvoiceStatusPaid, models.InvoiceStatusUnpaid, models.InvoiceStatusOverdue:
	default:
		return fmt.Errorf("unknown status %q", input.Status)
	}
	if input.Status == models.InvoiceStatusPaid && input.PaidDate == "" {
		return fmt.Errorf("paid invoices need a paid_date")
	}
	if _, err := time.Parse("2006-01", input.Month); err != nil {
		return fmt.Errorf("month must use the YYYY-MM format")
	}
	return nil
}

func validatePaymentInput(input PaymentInput) error {
	if input.PaymentID == "" {
		return fmt.Errorf("payment_id is required")
	}
	if input.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if _, err := time.Parse("2006-01-02", input.PaymentDate); err != nil {
		return fmt.Errorf("payment_date must use the YYYY-MM-DD format")
	}
	if _, err := time.Parse("2006-01", input.Month); err != nil {
		return fmt.Errorf("month must use the YYYY-MM format")
	}
	return nil
}

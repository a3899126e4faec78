package repositories

import (
	"database/sql"
	"errors"
	"time"

	"leasing-analytics-service/internal/models"
)

// ErrInvoiceNotSettled reports that a settlement matched no open invoice,
// either because the invoice id is unknown or the invoice is already paid.
var ErrInvoiceNotSettled = errors.New("invoice not found or already paid")

type InvoiceRepository interface {
	InsertInvoice(tx *sql.Tx, inv *models.InvoiceRecord) error
	GetInvoiceByInvoiceID(invoiceID string) (*models.InvoiceRecord, error)
	GetInvoicesByMonthRange(fromMonth, toMonth string) ([]models.InvoiceRecord, error)
	MarkInvoicePaid(tx *sql.Tx, invoiceID, paidDate string) error
}

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) InsertInvoice(tx *sql.Tx, inv *models.InvoiceRecord) error {
	query := `
		INSERT INTO invoices (
			invoice_id, amount, due_date, paid_date, status, category, month
		) VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?)
	`
	result, err := tx.Exec(query,
		inv.InvoiceID,
		inv.Amount,
		inv.DueDate,
		inv.PaidDate,
		inv.Status,
		inv.Category,
		inv.Month,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = id
	return nil
}

func (r *invoiceRepository) GetInvoiceByInvoiceID(invoiceID string) (*models.InvoiceRecord, error) {
	inv := &models.InvoiceRecord{}
	var paidDate sql.NullString
	query := `
		SELECT id, invoice_id, amount, due_date, paid_date, status, category, month,
		       created_at, updated_at
		FROM invoices
		WHERE invoice_id = ?
	`
	err := r.db.QueryRow(query, invoiceID).Scan(
		&inv.ID,
		&inv.InvoiceID,
		&inv.Amount,
		&inv.DueDate,
		&paidDate,
		&inv.Status,
		&inv.Category,
		&inv.Month,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.New("invoice not found")
	}
	if err != nil {
		return nil, err
	}
	inv.PaidDate = paidDate.String
	return inv, nil
}

func (r *invoiceRepository) GetInvoicesByMonthRange(fromMonth, toMonth string) ([]models.InvoiceRecord, error) {
	query := `
		SELECT id, invoice_id, amount, due_date, paid_date, status, category, month,
		       created_at, updated_at
		FROM invoices
		WHERE month BETWEEN ? AND ?
		ORDER BY due_date ASC, id ASC
	`
	rows, err := r.db.Query(query, fromMonth, toMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.InvoiceRecord
	for rows.Next() {
		var inv models.InvoiceRecord
		var paidDate sql.NullString
		err := rows.Scan(
			&inv.ID,
			&inv.InvoiceID,
			&inv.Amount,
			&inv.DueDate,
			&paidDate,
			&inv.Status,
			&inv.Category,
			&inv.Month,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		inv.PaidDate = paidDate.String
		invoices = append(invoices, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) MarkInvoicePaid(tx *sql.Tx, invoiceID, paidDate string) error {
	query := `
		UPDATE invoices
		SET status = ?, paid_date = ?, updated_at = ?
		WHERE invoice_id = ? AND status != ?
	`
	result, err := tx.Exec(query, models.InvoiceStatusPaid, paidDate, time.Now(), invoiceID, models.InvoiceStatusPaid)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvoiceNotSettled
	}
	return nil
}

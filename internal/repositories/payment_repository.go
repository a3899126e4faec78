package repositories

import (
	"database/sql"

	"leasing-analytics-service/internal/models"
)

type PaymentRepository interface {
	InsertPayment(tx *sql.Tx, p *models.PaymentRecord) error
	GetPaymentsByMonthRange(fromMonth, toMonth string) ([]models.PaymentRecord, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) InsertPayment(tx *sql.Tx, p *models.PaymentRecord) error {
	query := `
		INSERT INTO payments (
			payment_id, amount, payment_date, category, month, status
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query,
		p.PaymentID,
		p.Amount,
		p.PaymentDate,
		p.Category,
		p.Month,
		p.Status,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *paymentRepository) GetPaymentsByMonthRange(fromMonth, toMonth string) ([]models.PaymentRecord, error) {
	query := `
		SELECT id, payment_id, amount, payment_date, category, month, status,
		       created_at, updated_at
		FROM payments
		WHERE month BETWEEN ? AND ?
		ORDER BY payment_date ASC, id ASC
	`
	rows, err := r.db.Query(query, fromMonth, toMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	for rows.Next() {
		var p models.PaymentRecord
		err := rows.Scan(
			&p.ID,
			&p.PaymentID,
			&p.Amount,
			&p.PaymentDate,
			&p.Category,
			&p.Month,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

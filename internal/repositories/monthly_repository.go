package repositories

import (
	"database/sql"
	"errors"

	"leasing-analytics-service/internal/models"
)

type MonthlyRepository interface {
	InsertMonthlyRecord(tx *sql.Tx, rec *models.MonthlyFinancialRecord) error
	GetMonthlyRecordByMonth(month string) (*models.MonthlyFinancialRecord, error)
	GetMonthlyRecords(fromMonth, toMonth string) ([]models.MonthlyFinancialRecord, error)
}

type monthlyRepository struct {
	db *sql.DB
}

func NewMonthlyRepository(db *sql.DB) MonthlyRepository {
	return &monthlyRepository{db: db}
}

const monthlyColumns = `
	id, month,
	rent_payments, admin_fees, insurance_income, late_fees, other_revenue, total_revenue,
	car_purchases, car_purchase_count, insurance_costs, maintenance_costs, operations_costs, other_costs, total_costs,
	gross_profit, net_profit, profit_margin,
	active_leases, new_leases, ended_leases,
	avg_rent_payment, payment_success_rate,
	created_at, updated_at
`

func (r *monthlyRepository) InsertMonthlyRecord(tx *sql.Tx, rec *models.MonthlyFinancialRecord) error {
	query := `
		INSERT INTO monthly_financials (
			month,
			rent_payments, admin_fees, insurance_income, late_fees, other_revenue, total_revenue,
			car_purchases, car_purchase_count, insurance_costs, maintenance_costs, operations_costs, other_costs, total_costs,
			gross_profit, net_profit, profit_margin,
			active_leases, new_leases, ended_leases,
			avg_rent_payment, payment_success_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query,
		rec.Month,
		rec.RentPayments, rec.AdminFees, rec.InsuranceIncome, rec.LateFees, rec.OtherRevenue, rec.TotalRevenue,
		rec.CarPurchases, rec.CarPurchaseCount, rec.InsuranceCosts, rec.MaintenanceCosts, rec.OperationsCosts, rec.OtherCosts, rec.TotalCosts,
		rec.GrossProfit, rec.NetProfit, rec.ProfitMargin,
		rec.ActiveLeases, rec.NewLeases, rec.EndedLeases,
		rec.AvgRentPayment, rec.PaymentSuccessRate,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

func (r *monthlyRepository) GetMonthlyRecordByMonth(month string) (*models.MonthlyFinancialRecord, error) {
	rec := &models.MonthlyFinancialRecord{}
	query := `SELECT ` + monthlyColumns + ` FROM monthly_financials WHERE month = ?`
	err := scanMonthlyRecord(r.db.QueryRow(query, month), rec)
	if err == sql.ErrNoRows {
		return nil, errors.New("monthly record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *monthlyRepository) GetMonthlyRecords(fromMonth, toMonth string) ([]models.MonthlyFinancialRecord, error) {
	query := `
		SELECT ` + monthlyColumns + `
		FROM monthly_financials
		WHERE month BETWEEN ? AND ?
		ORDER BY month ASC
	`
	rows, err := r.db.Query(query, fromMonth, toMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MonthlyFinancialRecord
	for rows.Next() {
		var rec models.MonthlyFinancialRecord
		if err := scanMonthlyRecord(rows, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMonthlyRecord(row rowScanner, rec *models.MonthlyFinancialRecord) error {
	return row.Scan(
		&rec.ID, &rec.Month,
		&rec.RentPayments, &rec.AdminFees, &rec.InsuranceIncome, &rec.LateFees, &rec.OtherRevenue, &rec.TotalRevenue,
		&rec.CarPurchases, &rec.CarPurchaseCount, &rec.InsuranceCosts, &rec.MaintenanceCosts, &rec.OperationsCosts, &rec.OtherCosts, &rec.TotalCosts,
		&rec.GrossProfit, &rec.NetProfit, &rec.ProfitMargin,
		&rec.ActiveLeases, &rec.NewLeases, &rec.EndedLeases,
		&rec.AvgRentPayment, &rec.PaymentSuccessRate,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
}

package repositories

import (
	"database/sql"

	"leasing-analytics-service/internal/models"
)

// LeaseRepository reads the operational figures the investor report needs:
// funnel stages, fleet composition, and technician review throughput.
type LeaseRepository interface {
	GetFunnelStages() ([]models.FunnelStage, error)
	GetFleetStats() (models.FleetStats, error)
	GetReviewStats() (models.ReviewStats, error)
}

type leaseRepository struct {
	db *sql.DB
}

func NewLeaseRepository(db *sql.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) GetFunnelStages() ([]models.FunnelStage, error) {
	query := `
		SELECT stage, lead_count
		FROM lease_funnel
		ORDER BY stage_order ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []models.FunnelStage
	for rows.Next() {
		var s models.FunnelStage
		if err := rows.Scan(&s.Stage, &s.Count); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *leaseRepository) GetFleetStats() (models.FleetStats, error) {
	var stats models.FleetStats
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'leased'), 0),
		       COALESCE(SUM(status = 'idle'), 0)
		FROM vehicles
	`
	err := r.db.QueryRow(query).Scan(&stats.TotalVehicles, &stats.LeasedVehicles, &stats.IdleVehicles)
	if err != nil {
		return models.FleetStats{}, err
	}
	if stats.TotalVehicles > 0 {
		stats.UtilizationRate = float64(stats.LeasedVehicles) / float64(stats.TotalVehicles) * 100
	}
	return stats, nil
}

func (r *leaseRepository) GetReviewStats() (models.ReviewStats, error) {
	var stats models.ReviewStats
	query := `
		SELECT COALESCE(SUM(status = 'completed'), 0),
		       COALESCE(SUM(status = 'pending'), 0),
		       COALESCE(AVG(CASE WHEN status = 'completed' THEN DATEDIFF(completed_at, created_at) END), 0)
		FROM technician_reviews
	`
	err := r.db.QueryRow(query).Scan(&stats.CompletedReviews, &stats.PendingReviews, &stats.AvgTurnaroundDays)
	if err != nil {
		return models.ReviewStats{}, err
	}
	return stats, nil
}

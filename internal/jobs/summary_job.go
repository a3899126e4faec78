package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"leasing-analytics-service/internal/config"
	"leasing-analytics-service/internal/models"
	"leasing-analytics-service/internal/services"
)

// StartSummaryScheduler runs the executive summary on a schedule and logs the
// headline findings, so the dashboard's morning view has a fresh snapshot in
// the logs even before anyone opens it. Returns the started scheduler; the
// caller stops it on shutdown.
func StartSummaryScheduler(cfg *config.Config, reportService *services.ReportService, logger *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.Reporting.SummarySchedule, func() {
		toMonth := time.Now().Format("2006-01")
		fromMonth := time.Now().AddDate(0, -cfg.Reporting.SummaryMonths, 0).Format("2006-01")

		summary, err := reportService.GetExecutiveSummary(fromMonth, toMonth)
		if err != nil {
			logger.WithError(err).Error("scheduled executive summary failed")
			return
		}

		logger.WithFields(logrus.Fields{
			"from":       fromMonth,
			"to":         toMonth,
			"risk_score": summary.Risk.Score,
			"risk_level": summary.Risk.Level,
			"insights":   len(summary.Insights),
		}).Info("scheduled executive summary")

		for _, in := range summary.Priorities {
			logger.WithFields(logrus.Fields{
				"category": in.Category,
				"priority": in.Priority,
			}).Info(in.Message)
		}
		if summary.Risk.Level == models.RiskLevelHigh {
			logger.Warn(summary.Risk.Description)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Infof("Summary scheduler started with spec %q", cfg.Reporting.SummarySchedule)
	return c, nil
}

package handlers

import (
	"net/http"
	"time"

	"leasing-analytics-service/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// monthRange pulls and validates the from_month/to_month query parameters.
func monthRange(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	fromMonth := r.URL.Query().Get("from_month")
	toMonth := r.URL.Query().Get("to_month")

	if fromMonth == "" || toMonth == "" {
		respondWithError(w, http.StatusBadRequest, "Both from_month and to_month query parameters are required")
		return "", "", false
	}
	if _, err := time.Parse("2006-01", fromMonth); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid from_month format. Use YYYY-MM")
		return "", "", false
	}
	if _, err := time.Parse("2006-01", toMonth); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid to_month format. Use YYYY-MM")
		return "", "", false
	}
	return fromMonth, toMonth, true
}

func (h *ReportHandler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	data, err := h.reportService.BuildFinancialReport(fromMonth, toMonth)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}

func (h *ReportHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.GetInsights(fromMonth, toMonth)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.GetExecutiveSummary(fromMonth, toMonth)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// GetAgingReport accepts an optional as_of=YYYY-MM-DD parameter so callers
// can pin the reference date; it defaults to the current time.
func (h *ReportHandler) GetAgingReport(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	now := time.Now()
	if asOf := r.URL.Query().Get("as_of"); asOf != "" {
		parsed, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid as_of format. Use YYYY-MM-DD")
			return
		}
		now = parsed
	}

	buckets, err := h.reportService.GetAgingReport(fromMonth, toMonth, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, buckets)
}

func (h *ReportHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.GetReconciliationReport(fromMonth, toMonth)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetRiskScore(w http.ResponseWriter, r *http.Request) {
	fromMonth, toMonth, ok := monthRange(w, r)
	if !ok {
		return
	}

	score, err := h.reportService.GetRiskScore(fromMonth, toMonth, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, score)
}

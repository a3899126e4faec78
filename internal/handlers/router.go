package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"leasing-analytics-service/internal/repositories"
	"leasing-analytics-service/internal/services"
)

func SetupRouter(db *sql.DB, logger *logrus.Logger) *mux.Router {
	monthlyRepo := repositories.NewMonthlyRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	leaseRepo := repositories.NewLeaseRepository(db)

	reportService := services.NewReportService(monthlyRepo, invoiceRepo, paymentRepo, leaseRepo, logger)
	ingestionService := services.NewIngestionService(db, monthlyRepo, invoiceRepo, paymentRepo, logger)

	reportHandler := NewReportHandler(reportService)
	ingestionHandler := NewIngestionHandler(ingestionService)

	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware(logger))
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/reports/financial", reportHandler.GetFinancialReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/insights", reportHandler.GetInsights).Methods(http.MethodGet)
	api.HandleFunc("/reports/summary", reportHandler.GetExecutiveSummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/aging", reportHandler.GetAgingReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/reconciliation", reportHandler.GetReconciliation).Methods(http.MethodGet)
	api.HandleFunc("/reports/risk", reportHandler.GetRiskScore).Methods(http.MethodGet)

	api.HandleFunc("/data/monthly", ingestionHandler.IngestMonthlyRecords).Methods(http.MethodPost)
	api.HandleFunc("/data/invoices", ingestionHandler.IngestInvoices).Methods(http.MethodPost)
	api.HandleFunc("/data/invoices/{invoice_id}/paid", ingestionHandler.SettleInvoice).Methods(http.MethodPut)
	api.HandleFunc("/data/payments", ingestionHandler.IngestPayments).Methods(http.MethodPost)

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	return router
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.WithFields(logrus.Fields{
				"remote": r.RemoteAddr,
				"method": r.Method,
				"path":   r.URL.Path,
			}).Debug("request")
			next.ServeHTTP(w, r)
		})
	}
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}
	respondWithJSON(w, http.StatusOK, response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"leasing-analytics-service/internal/models"
	"leasing-analytics-service/internal/repositories"
	"leasing-analytics-service/internal/services"
)

type IngestionHandler struct {
	ingestionService *services.IngestionService
}

func NewIngestionHandler(ingestionService *services.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestionService: ingestionService}
}

func (h *IngestionHandler) IngestMonthlyRecords(w http.ResponseWriter, r *http.Request) {
	var inputs []models.MonthlyFinancialRecord
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(inputs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No monthly records provided")
		return
	}

	result, err := h.ingestionService.IngestMonthlyRecords(inputs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *IngestionHandler) IngestInvoices(w http.ResponseWriter, r *http.Request) {
	var inputs []services.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(inputs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No invoices provided")
		return
	}

	result, err := h.ingestionService.IngestInvoices(inputs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

type settleInvoiceRequest struct {
	PaidDate string `json:"paid_date"`
}

func (h *IngestionHandler) SettleInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := mux.Vars(r)["invoice_id"]

	var req settleInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if _, err := time.Parse("2006-01-02", req.PaidDate); err != nil {
		respondWithError(w, http.StatusBadRequest, "paid_date must use the YYYY-MM-DD format")
		return
	}

	if err := h.ingestionService.SettleInvoice(invoiceID, req.PaidDate); err != nil {
		if errors.Is(err, repositories.ErrInvoiceNotSettled) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"invoice_id": invoiceID,
		"paid_date":  req.PaidDate,
		"status":     models.InvoiceStatusPaid,
	})
}

func (h *IngestionHandler) IngestPayments(w http.ResponseWriter, r *http.Request) {
	var inputs []services.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(inputs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No payments provided")
		return
	}

	result, err := h.ingestionService.IngestPayments(inputs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

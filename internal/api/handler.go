package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/metrics"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/register"
)

// Handler exposes the register operations over HTTP.
type Handler struct {
	register *register.Register
	recorder *ledger.Recorder
	log      *slog.Logger
}

func NewHandler(reg *register.Register, rec *ledger.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		register: reg,
		recorder: rec,
		log:      logger,
	}
}

type cashItem struct {
	Denomination int64 `json:"denomination"`
	Quantity     int64 `json:"quantity"`
}

type chargeRequest struct {
	Details []cashItem `json:"details"`
}

type payRequest struct {
	Amount int64      `json:"amount"`
	Cash   []cashItem `json:"cash"`
}

type logByDateRequest struct {
	Date string `json:"date"`
	Hour *int   `json:"hour"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type logResponse struct {
	Transactions []ledger.Entry `json:"transactions"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Details) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "details param must be provided"})
		return
	}

	total, err := h.register.Charge(r.Context(), toDeltas(req.Details))
	if err != nil {
		h.fail(w, "charge", err)
		return
	}
	if err := h.recorder.Record(r.Context(), models.TransactionCharge, total, time.Now()); err != nil {
		h.fail(w, "charge", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Success"})
}

func (h *Handler) Empty(w http.ResponseWriter, r *http.Request) {
	removed, emptied, err := h.register.Empty(r.Context())
	if err != nil {
		h.fail(w, "empty", err)
		return
	}
	if !emptied {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Cash register is already empty"})
		return
	}
	if err := h.recorder.Record(r.Context(), models.TransactionEmpty, -removed, time.Now()); err != nil {
		h.fail(w, "empty", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Success"})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	state, err := h.register.Status(r.Context())
	if err != nil {
		h.fail(w, "status", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Amount == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount must be provided"})
		return
	}
	if len(req.Cash) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cash must be provided"})
		return
	}
	for _, item := range req.Cash {
		if !models.IsLegalTender(item.Denomination) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("denomination must be one of: %v", models.Denominations),
			})
			return
		}
	}

	result, err := h.register.Pay(r.Context(), req.Amount, toDeltas(req.Cash))
	if err != nil {
		h.fail(w, "pay", err)
		return
	}

	now := time.Now()
	if err := h.recorder.Record(r.Context(), models.TransactionPayment, result.TotalTendered, now); err != nil {
		h.fail(w, "pay", err)
		return
	}
	if err := h.recorder.Record(r.Context(), models.TransactionChange, -result.ChangeAmount, now); err != nil {
		h.fail(w, "pay", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Success"})
}

func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	entries, err := h.recorder.ListAll(r.Context())
	if err != nil {
		h.fail(w, "log", err)
		return
	}
	writeJSON(w, http.StatusOK, logResponse{Transactions: entries})
}

func (h *Handler) LogByDate(w http.ResponseWriter, r *http.Request) {
	req := decodeLogByDate(r)
	if req.Date == "" || req.Hour == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date and hour params must be provided"})
		return
	}

	log, err := h.recorder.ListUpTo(r.Context(), req.Date, *req.Hour)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidDate) || errors.Is(err, ledger.ErrInvalidHour) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.fail(w, "log-by-date", err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// decodeLogByDate accepts the boundary in the request body (reference API
// shape) or as date/hour query parameters.
func decodeLogByDate(r *http.Request) logByDateRequest {
	var req logByDateRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Date == "" {
		req.Date = r.URL.Query().Get("date")
	}
	if req.Hour == nil {
		if raw := r.URL.Query().Get("hour"); raw != "" {
			if hour, err := strconv.Atoi(raw); err == nil {
				req.Hour = &hour
			}
		}
	}
	return req
}

func (h *Handler) fail(w http.ResponseWriter, operation string, err error) {
	metrics.OperationFailures.WithLabelValues(operation).Inc()
	h.log.Error("operation failed", "operation", operation, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func toDeltas(items []cashItem) []models.CashDelta {
	deltas := make([]models.CashDelta, 0, len(items))
	for _, item := range items {
		deltas = append(deltas, models.CashDelta{
			Denomination: item.Denomination,
			Quantity:     item.Quantity,
		})
	}
	return deltas
}

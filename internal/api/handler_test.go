package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sheikh-saqib/cash-register-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/models"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/register"
	"github.com/sheikh-saqib/cash-register-ledger-system/internal/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := register.New(store, logger)
	rec := ledger.NewRecorder(store, nil, "transaction_recorded", logger)
	return NewRouter(NewHandler(reg, rec, logger))
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestChargeAndStatus(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/charge",
		`{"details":[{"denomination":10000,"quantity":5},{"denomination":50000,"quantity":5}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("charge status = %d, body %s", w.Code, w.Body)
	}
	var msg messageResponse
	decodeBody(t, w, &msg)
	if msg.Message != "Success" {
		t.Fatalf("message = %q, want Success", msg.Message)
	}

	w = doJSON(t, srv, http.MethodGet, "/transaction/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}
	var state models.CashState
	decodeBody(t, w, &state)
	if state.Balance != 300000 {
		t.Fatalf("balance = %d, want 300000", state.Balance)
	}
	if len(state.Details) != len(models.Denominations) {
		t.Fatalf("got %d details, want %d", len(state.Details), len(models.Denominations))
	}
}

func TestChargeMissingDetails(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{`{}`, `{"details":[]}`} {
		w := doJSON(t, srv, http.MethodPost, "/transaction/charge", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestChargeInvalidDenominationIsServerError(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/charge",
		`{"details":[{"denomination":123,"quantity":1}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestPayRecordsPaymentAndChange(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/charge",
		`{"details":[{"denomination":10000,"quantity":1},{"denomination":50000,"quantity":1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("charge status = %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/transaction/pay",
		`{"amount":40000,"cash":[{"denomination":50000,"quantity":1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("pay status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, srv, http.MethodGet, "/transaction/log", "")
	if w.Code != http.StatusOK {
		t.Fatalf("log status = %d", w.Code)
	}
	var log logResponse
	decodeBody(t, w, &log)
	if len(log.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3 (CHARGE, PAYMENT, CHANGE)", len(log.Transactions))
	}

	var sawPayment, sawChange bool
	for _, entry := range log.Transactions {
		switch entry.Type {
		case models.TransactionPayment:
			sawPayment = true
			if entry.Amount != 50000 {
				t.Fatalf("payment amount = %d, want 50000", entry.Amount)
			}
		case models.TransactionChange:
			sawChange = true
			if entry.Amount != -10000 {
				t.Fatalf("change amount = %d, want -10000", entry.Amount)
			}
		}
	}
	if !sawPayment || !sawChange {
		t.Fatalf("log missing payment/change rows: %v", log.Transactions)
	}
}

func TestPayValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing amount", body: `{"cash":[{"denomination":50,"quantity":1}]}`},
		{name: "missing cash", body: `{"amount":100}`},
		{name: "illegal denomination", body: `{"amount":100,"cash":[{"denomination":123,"quantity":1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/transaction/pay", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body)
			}
		})
	}
}

func TestPayIllegalDenominationNamesLegalTender(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/pay",
		`{"amount":100,"cash":[{"denomination":123,"quantity":1}]}`)
	var resp errorResponse
	decodeBody(t, w, &resp)
	if !strings.Contains(resp.Error, "100000") || !strings.Contains(resp.Error, "50") {
		t.Fatalf("error %q does not name the legal-tender list", resp.Error)
	}
}

func TestPayBusinessFailuresAreServerErrors(t *testing.T) {
	srv := newTestServer(t)

	// empty register cannot cover any change
	w := doJSON(t, srv, http.MethodPost, "/transaction/pay",
		`{"amount":50,"cash":[{"denomination":100,"quantity":1}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body %s", w.Code, w.Body)
	}
}

func TestEmpty(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/empty", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty status = %d", w.Code)
	}
	var msg messageResponse
	decodeBody(t, w, &msg)
	if msg.Message != "Cash register is already empty" {
		t.Fatalf("message = %q, want already-empty notice", msg.Message)
	}

	w = doJSON(t, srv, http.MethodPost, "/transaction/charge",
		`{"details":[{"denomination":10000,"quantity":1},{"denomination":50000,"quantity":1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("charge status = %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/transaction/empty", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty status = %d", w.Code)
	}
	decodeBody(t, w, &msg)
	if msg.Message != "Success" {
		t.Fatalf("message = %q, want Success", msg.Message)
	}

	// one EMPTY transaction of -balance must have been appended
	w = doJSON(t, srv, http.MethodGet, "/transaction/log", "")
	var log logResponse
	decodeBody(t, w, &log)
	if len(log.Transactions) == 0 || log.Transactions[0].Type != models.TransactionEmpty {
		t.Fatalf("newest transaction is not EMPTY: %v", log.Transactions)
	}
	if log.Transactions[0].Amount != -60000 {
		t.Fatalf("EMPTY amount = %d, want -60000", log.Transactions[0].Amount)
	}
}

func TestLogByDateValidation(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/transaction/log-by-date", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/transaction/log-by-date", `{"date":"not-a-date","hour":10}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body)
	}
}

func TestLogByDateQueryParams(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/transaction/charge",
		`{"details":[{"denomination":50,"quantity":2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("charge status = %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/transaction/log-by-date?date=31/12/2100&hour=23", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var log ledger.Log
	decodeBody(t, w, &log)
	if len(log.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(log.Transactions))
	}
	if log.Balance != 100 {
		t.Fatalf("balance = %d, want 100", log.Balance)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

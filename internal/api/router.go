package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the register endpoints under the /transaction prefix.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	t := r.PathPrefix("/transaction").Subrouter()
	t.HandleFunc("/charge", h.Charge).Methods(http.MethodPost)
	t.HandleFunc("/empty", h.Empty).Methods(http.MethodPost)
	t.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	t.HandleFunc("/pay", h.Pay).Methods(http.MethodPost)
	t.HandleFunc("/log", h.Log).Methods(http.MethodGet)
	t.HandleFunc("/log-by-date", h.LogByDate).Methods(http.MethodGet)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

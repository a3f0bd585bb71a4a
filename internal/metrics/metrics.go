package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsRecorded counts rows appended to the transaction log.
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "register_transactions_recorded_total",
		Help: "Transactions appended to the ledger, by type.",
	}, []string{"type"})

	// OperationFailures counts register operations that ended in a 5xx.
	OperationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "register_operation_failures_total",
		Help: "Failed register operations, by operation.",
	}, []string{"operation"})
)

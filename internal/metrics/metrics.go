// Package metrics exposes Prometheus instrumentation for the ledger engine.
// Collectors register on the default registry; serving them is the adapter's
// choice (cmd/warikan exposes /metrics when METRICS_ADDR is set).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerReads counts ledger loads from storage.
	LedgerReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warikan_ledger_reads_total",
		Help: "Number of ledger reads from storage.",
	})

	// LedgerReadFailures counts reads that failed to load or parse.
	LedgerReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warikan_ledger_read_failures_total",
		Help: "Number of ledger reads that failed.",
	})

	// LedgerWrites counts whole-ledger replacements.
	LedgerWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warikan_ledger_writes_total",
		Help: "Number of whole-ledger writes to storage.",
	})

	// Commands counts command outcomes by command name and status
	// (ok, validation_error, storage_error, cancelled).
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warikan_commands_total",
		Help: "Number of executed ledger commands by outcome.",
	}, []string{"command", "status"})

	// Settlements counts confirmed settlements recorded into ledgers.
	Settlements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warikan_settlements_total",
		Help: "Number of confirmed settlements recorded.",
	})
)

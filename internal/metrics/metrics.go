// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records ledger operations.
type Collector struct {
	operations  *prometheus.CounterVec
	loadErrors  prometheus.Counter
	records     prometheus.Gauge
	outstanding prometheus.Gauge
}

// NewCollector creates a Collector whose metric names are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of ledger operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		loadErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_errors_total",
				Help:      "Total number of persisted records skipped while loading",
			},
		),
		records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "records",
				Help:      "Number of expense records in the ledger",
			},
		),
		outstanding: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outstanding",
				Help:      "Sum of all positive net balances",
			},
		),
	}
}

// Register registers all metrics with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.operations, c.loadErrors, c.records, c.outstanding} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// RecordOperation counts one operation. result is "ok" or an error kind.
func (c *Collector) RecordOperation(operation, result string) {
	c.operations.WithLabelValues(operation, result).Inc()
}

// RecordLoadErrors adds n skipped records.
func (c *Collector) RecordLoadErrors(n int) {
	c.loadErrors.Add(float64(n))
}

// SetLedgerState updates the record count and outstanding total.
func (c *Collector) SetLedgerState(records int, outstanding float64) {
	c.records.Set(float64(records))
	c.outstanding.Set(outstanding)
}

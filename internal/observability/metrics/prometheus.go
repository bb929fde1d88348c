//revive:disable:var-naming
//revive:disable:exported
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exposes log-store metrics and can be injected into the logstore
// layer. It implements internal/logstore.Metrics through method set
// compatibility, without importing that package.
type Prometheus struct {
	nodeID string

	logAppendDuration *prometheus.HistogramVec
	logApplyDuration  *prometheus.HistogramVec
	logWriteTotal     *prometheus.CounterVec
	logPurgedTotal    *prometheus.CounterVec
	logBackendErrors  *prometheus.CounterVec
	logLastIndex      *prometheus.GaugeVec
	logLastApplied    *prometheus.GaugeVec
	logFederatedSize  *prometheus.GaugeVec
}

func NewPrometheus(reg prometheus.Registerer, nodeID string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Prometheus{
		nodeID: nodeID,
		logAppendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "append_duration_seconds",
				Help:      "Time spent inserting a log record, compression included.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"node_id"},
		),
		logApplyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "apply_duration_seconds",
				Help:      "Time spent executing one log record against the state machine and stamping it.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1},
			},
			[]string{"node_id"},
		),
		logWriteTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "write_total",
				Help:      "Write outcomes (ok, not_leader, replication_failed, lost_leadership, etc.).",
			},
			[]string{"node_id", "result"},
		),
		logPurgedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "purged_records_total",
				Help:      "Log records removed by retention compaction.",
			},
			[]string{"node_id"},
		),
		logBackendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "backend_error_total",
				Help:      "Backend errors by operation.",
			},
			[]string{"node_id", "op"},
		),
		logLastIndex: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "last_index",
				Help:      "Highest log index present in the store.",
			},
			[]string{"node_id"},
		),
		logLastApplied: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "last_applied",
				Help:      "Highest log index applied to the state machine.",
			},
			[]string{"node_id"},
		),
		logFederatedSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "logdb",
				Subsystem: "logstore",
				Name:      "federated_records",
				Help:      "Number of live federated indices in the store.",
			},
			[]string{"node_id"},
		),
	}

	if err := m.register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Prometheus) register(reg prometheus.Registerer) error {
	if err := registerOrReuseHistogramVec(reg, &m.logAppendDuration); err != nil {
		return fmt.Errorf("register append duration histogram: %w", err)
	}
	if err := registerOrReuseHistogramVec(reg, &m.logApplyDuration); err != nil {
		return fmt.Errorf("register apply duration histogram: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.logWriteTotal); err != nil {
		return fmt.Errorf("register write counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.logPurgedTotal); err != nil {
		return fmt.Errorf("register purged counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.logBackendErrors); err != nil {
		return fmt.Errorf("register backend error counter: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.logLastIndex); err != nil {
		return fmt.Errorf("register last index gauge: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.logLastApplied); err != nil {
		return fmt.Errorf("register last applied gauge: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.logFederatedSize); err != nil {
		return fmt.Errorf("register federated size gauge: %w", err)
	}
	return nil
}

func registerOrReuseHistogramVec(reg prometheus.Registerer, c **prometheus.HistogramVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseCounterVec(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseGaugeVec(reg prometheus.Registerer, c **prometheus.GaugeVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func (m *Prometheus) ObserveLogAppendDuration(d time.Duration) {
	m.logAppendDuration.WithLabelValues(m.nodeID).Observe(d.Seconds())
}

func (m *Prometheus) ObserveLogApplyDuration(d time.Duration) {
	m.logApplyDuration.WithLabelValues(m.nodeID).Observe(d.Seconds())
}

func (m *Prometheus) IncLogWriteResult(result string) {
	m.logWriteTotal.WithLabelValues(m.nodeID, result).Inc()
}

func (m *Prometheus) AddLogPurgedRecords(n int64) {
	if n <= 0 {
		return
	}
	m.logPurgedTotal.WithLabelValues(m.nodeID).Add(float64(n))
}

func (m *Prometheus) IncLogBackendError(op string) {
	m.logBackendErrors.WithLabelValues(m.nodeID, op).Inc()
}

func (m *Prometheus) SetLogLastIndex(index int64) {
	m.logLastIndex.WithLabelValues(m.nodeID).Set(float64(index))
}

func (m *Prometheus) SetLogLastApplied(index int64) {
	m.logLastApplied.WithLabelValues(m.nodeID).Set(float64(index))
}

func (m *Prometheus) SetLogFederatedSize(n int) {
	m.logFederatedSize.WithLabelValues(m.nodeID).Set(float64(n))
}

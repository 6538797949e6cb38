package notification

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// MetricsRule counts stock transitions and fired alerts for Prometheus
type MetricsRule struct {
	transitions prometheus.Counter
	alerts      *prometheus.CounterVec
	low         *LowStockRule
	expiry      *ExpiryRule
}

// NewMetricsRule creates a metrics rule registered on the given registerer
func NewMetricsRule(reg prometheus.Registerer, expiryWindowDays int) *MetricsRule {
	transitions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_transitions_total",
		Help: "Total number of stock quantity transitions",
	})
	alerts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_alerts_total",
			Help: "Total number of stock alerts by kind",
		},
		[]string{"kind"},
	)
	reg.MustRegister(transitions, alerts)

	r := &MetricsRule{transitions: transitions, alerts: alerts}
	count := func(alert Alert) {
		alerts.WithLabelValues(alert.Kind).Inc()
	}
	// Reuse the rule logic to decide which alerts a transition produces
	r.low = NewLowStockRule(count)
	r.expiry = NewExpiryRule(expiryWindowDays, count)
	return r
}

func (r *MetricsRule) Name() string { return "metrics" }

func (r *MetricsRule) OnTransition(event domain.StockTransition) error {
	r.transitions.Inc()
	if err := r.low.OnTransition(event); err != nil {
		return err
	}
	return r.expiry.OnTransition(event)
}

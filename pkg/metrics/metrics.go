package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores Prometheus del núcleo de inventario, expuestos en /metrics.
var (
	transactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Subsystem: "inventory",
		Name:      "transactions_applied_total",
		Help:      "Transacciones de inventario aplicadas al ledger, por tipo.",
	}, []string{"type"})

	insufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fieldops",
		Subsystem: "inventory",
		Name:      "insufficient_stock_rejections_total",
		Help:      "Operaciones rechazadas por stock insuficiente.",
	})

	alertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fieldops",
		Subsystem: "inventory",
		Name:      "stock_alerts_raised_total",
		Help:      "Alertas de stock levantadas por el monitor, por tipo.",
	}, []string{"type"})
)

// TransactionApplied registra una transacción aplicada al ledger.
func TransactionApplied(txType string) {
	transactionsApplied.WithLabelValues(txType).Inc()
}

// InsufficientStockRejected registra un rechazo por stock insuficiente.
func InsufficientStockRejected() {
	insufficientStock.Inc()
}

// AlertRaised registra una alerta levantada.
func AlertRaised(alertType string) {
	alertsRaised.WithLabelValues(alertType).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records operations applied to the cart, builder, and order containers.
type StorefrontMetrics struct {
	cartOps        *prometheus.CounterVec
	builderSteps   *prometheus.CounterVec
	orderStatus    *prometheus.CounterVec
	snapshotLoad   *prometheus.HistogramVec
	ordersCreated  prometheus.Counter
	checkoutAmount prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront instruments on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart ledger mutations by operation.",
	}, []string{"op"})
	builderSteps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "builder_step_transitions_total",
		Help: "Bouquet builder step transitions by direction and result.",
	}, []string{"direction", "result"})
	orderStatus := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status changes by target status.",
	}, []string{"status"})
	snapshotLoad := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapshot_load_duration_seconds",
		Help:    "Duration of container snapshot loads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders placed through checkout or the admin API.",
	})
	checkoutAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_amount",
		Help:    "Order totals at checkout in whole currency units.",
		Buckets: []float64{1000, 3000, 5000, 10000, 20000, 50000},
	})
	reg.MustRegister(cartOps, builderSteps, orderStatus, snapshotLoad, ordersCreated, checkoutAmount)
	return &StorefrontMetrics{
		cartOps:        cartOps,
		builderSteps:   builderSteps,
		orderStatus:    orderStatus,
		snapshotLoad:   snapshotLoad,
		ordersCreated:  ordersCreated,
		checkoutAmount: checkoutAmount,
	}
}

// IncCartOp counts one cart mutation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncBuilderStep counts a step transition. moved is false when the guard held the step in place.
func (m *StorefrontMetrics) IncBuilderStep(direction string, moved bool) {
	if m == nil || m.builderSteps == nil {
		return
	}
	result := "moved"
	if !moved {
		result = "blocked"
	}
	m.builderSteps.WithLabelValues(normalizeLabel(direction), result).Inc()
}

// IncOrderStatus counts a status change to the given status.
func (m *StorefrontMetrics) IncOrderStatus(status string) {
	if m == nil || m.orderStatus == nil {
		return
	}
	m.orderStatus.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveSnapshotLoad records how long loading a snapshot of kind took.
func (m *StorefrontMetrics) ObserveSnapshotLoad(kind string, duration time.Duration) {
	if m == nil || m.snapshotLoad == nil {
		return
	}
	m.snapshotLoad.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// ObserveOrderCreated counts a new order and records its total.
func (m *StorefrontMetrics) ObserveOrderCreated(total int64) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
	m.checkoutAmount.Observe(float64(total))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

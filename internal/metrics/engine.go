package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xgallom/brno-number/internal/expr"
)

// EngineObserver exports engine operations observed during evaluation
// as Prometheus metrics. It implements expr.Observer.
type EngineObserver struct {
	ops       *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var _ expr.Observer = (*EngineObserver)(nil)

// NewEngineObserver creates the operation metrics under namespace and
// registers them with reg.
func NewEngineObserver(reg prometheus.Registerer, namespace string) *EngineObserver {
	o := &EngineObserver{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_operations_total",
			Help:      "Engine operations by operation and result kind.",
		}, []string{"op", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_operation_duration_seconds",
			Help:      "Duration of engine operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 9),
		}, []string{"op"}),
	}
	reg.MustRegister(o.ops, o.durations)
	return o
}

// ObserveOp records ev.
func (o *EngineObserver) ObserveOp(ev expr.OpEvent) {
	o.ops.WithLabelValues(ev.Op, ev.Result).Inc()
	o.durations.WithLabelValues(ev.Op).Observe(ev.Duration.Seconds())
}

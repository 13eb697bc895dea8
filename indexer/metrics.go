package indexer

import (
	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// fixedPointPrec is the decimal precision of rates and share values.
const fixedPointPrec = 18

// Metrics exports the latest snapshot of each strategy as gauges.
type Metrics struct {
	totalValue   *prometheus.GaugeVec
	shares       *prometheus.GaugeVec
	shareValue   *prometheus.GaugeVec
	feeRate      *prometheus.GaugeVec
	accumulated  *prometheus.GaugeVec
	readFailures *prometheus.CounterVec
	sweeps       prometheus.Counter
}

// NewMetrics registers the indexer metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		totalValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "total_value",
			Help:      "Value of the strategy position in the underlying token",
		}, []string{"strategy"}),
		shares: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "shares",
			Help:      "Total shares issued by the strategy",
		}, []string{"strategy"}),
		shareValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "share_value",
			Help:      "Value of one share in the underlying token",
		}, []string{"strategy"}),
		feeRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "fee_rate",
			Help:      "Pool exchange rate of the receipt token",
		}, []string{"strategy"}),
		accumulated: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "accumulated_rate",
			Help:      "Time weighted accumulated exchange rate projected to the sweep block",
		}, []string{"strategy"}),
		readFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "read_failures_total",
			Help:      "Strategy reads that failed and were recorded as zero",
		}, []string{"strategy", "read"}),
		sweeps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "sweeps_total",
			Help:      "Completed indexer sweeps",
		}),
	}
}

// Observe publishes snap.
func (m *Metrics) Observe(snap Snapshot) {
	id := snap.StrategyID
	m.totalValue.WithLabelValues(id).Set(toFloat(snap.TotalValue, 0))
	m.shares.WithLabelValues(id).Set(toFloat(snap.Shares, 0))
	m.shareValue.WithLabelValues(id).Set(toFloat(snap.ShareValue, fixedPointPrec))
	m.feeRate.WithLabelValues(id).Set(toFloat(snap.FeeRate, fixedPointPrec))
	m.accumulated.WithLabelValues(id).Set(toFloat(snap.ProjectedAccumulated, fixedPointPrec))
	for _, read := range snap.Failed {
		m.readFailures.WithLabelValues(id, read).Inc()
	}
}

func (m *Metrics) sweepDone() {
	m.sweeps.Inc()
}

// toFloat scales i down by prec decimals. Values too large for a decimal
// report zero.
func toFloat(i math.Int, prec int64) float64 {
	if i.IsNil() {
		return 0
	}
	f, err := math.LegacyNewDecFromBigIntWithPrec(i.BigInt(), prec).Float64()
	if err != nil {
		return 0
	}
	return f
}

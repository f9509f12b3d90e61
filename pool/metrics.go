package pool

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"ringlend/pool/wideint"
)

// Metrics holds the lazily-registered Prometheus collectors for the ring.
// It mirrors the registration discipline of the chain node's own
// observability layer: a package-level sync.Once guards a single
// MustRegister pass so repeated calls from tests or multiple rings never
// panic on duplicate registration.
type Metrics struct {
	TotalLiquidity  *prometheus.GaugeVec
	TotalBorrowable *prometheus.GaugeVec
	TotalCollateral *prometheus.GaugeVec
	TotalBonds      *prometheus.GaugeVec
	Liquidations    *prometheus.CounterVec
	FlashLoans      *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// PoolMetrics returns the process-wide lazily-initialized Metrics,
// registering its collectors with the default Prometheus registry on first
// use.
func PoolMetrics() *Metrics {
	metricsOnce.Do(func() {
		m := &Metrics{
			TotalLiquidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "total_liquidity",
				Help:      "Total liquidity owed to share-holders, in underlying units.",
			}, []string{"pool"}),
			TotalBorrowable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "total_borrowable",
				Help:      "Portion of total liquidity not currently lent out.",
			}, []string{"pool"}),
			TotalCollateral: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "total_collateral",
				Help:      "Total raw collateral held by the pool.",
			}, []string{"pool"}),
			TotalBonds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "total_bonds",
				Help:      "Total outstanding debt-bond claims.",
			}, []string{"pool"}),
			Liquidations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "liquidations_total",
				Help:      "Number of successful liquidations.",
			}, []string{"pool"}),
			FlashLoans: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ringlend",
				Subsystem: "pool",
				Name:      "flash_loans_total",
				Help:      "Number of successful flash loans.",
			}, []string{"pool"}),
		}
		prometheus.MustRegister(
			m.TotalLiquidity, m.TotalBorrowable, m.TotalCollateral,
			m.TotalBonds, m.Liquidations, m.FlashLoans,
		)
		metrics = m
	})
	return metrics
}

// Observe publishes p's current gauge values under its pool id label.
func (m *Metrics) Observe(p *Pool) {
	if m == nil {
		return
	}
	m.TotalLiquidity.WithLabelValues(p.ID).Set(bigFloat(p.TotalLiquidity))
	m.TotalBorrowable.WithLabelValues(p.ID).Set(bigFloat(p.TotalBorrowable))
	m.TotalCollateral.WithLabelValues(p.ID).Set(bigFloat(p.TotalCollateral))
	m.TotalBonds.WithLabelValues(p.ID).Set(bigFloat(p.TotalBonds))
}

func bigFloat(a *wideint.Amount) float64 {
	v, _ := new(big.Float).SetInt(wideint.ToBig(a)).Float64()
	return v
}

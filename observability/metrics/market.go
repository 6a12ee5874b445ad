package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type MarketMetrics struct {
	operations    *prometheus.CounterVec
	escrowBalance *prometheus.GaugeVec
	offersOpened  prometheus.Counter
	offersClosed  *prometheus.CounterVec
}

var (
	marketOnce     sync.Once
	marketRegistry *MarketMetrics
)

func Market() *MarketMetrics {
	marketOnce.Do(func() {
		marketRegistry = &MarketMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "market_operations_total",
				Help: "Count of offer lifecycle operations by method and outcome.",
			}, []string{"method", "outcome"}),
			escrowBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "market_escrow_balance",
				Help: "Total custodied balance per currency.",
			}, []string{"currency"}),
			offersOpened: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "market_offers_opened_total",
				Help: "Count of offers created.",
			}),
			offersClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "market_offers_closed_total",
				Help: "Count of offers reaching a terminal state, by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			marketRegistry.operations,
			marketRegistry.escrowBalance,
			marketRegistry.offersOpened,
			marketRegistry.offersClosed,
		)
	})
	return marketRegistry
}

func (m *MarketMetrics) ObserveOperation(method, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(method, outcome).Inc()
}

func (m *MarketMetrics) SetEscrowBalance(currency string, value float64) {
	if m == nil {
		return
	}
	m.escrowBalance.WithLabelValues(currency).Set(value)
}

func (m *MarketMetrics) OfferOpened() {
	if m == nil {
		return
	}
	m.offersOpened.Inc()
}

func (m *MarketMetrics) OfferClosed(outcome string) {
	if m == nil {
		return
	}
	m.offersClosed.WithLabelValues(outcome).Inc()
}

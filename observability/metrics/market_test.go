package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMarketMetrics(t *testing.T) {
	m := Market()
	require.NotNil(t, m)
	require.Same(t, m, Market())

	m.ObserveOperation("createNFTOffer", "ok")
	m.ObserveOperation("createNFTOffer", "ok")
	m.ObserveOperation("createNFTOffer", "error")
	require.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("createNFTOffer", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("createNFTOffer", "error")))

	m.SetEscrowBalance("MNT", 450)
	require.Equal(t, float64(450), testutil.ToFloat64(m.escrowBalance.WithLabelValues("MNT")))
	m.SetEscrowBalance("MNT", 0)
	require.Equal(t, float64(0), testutil.ToFloat64(m.escrowBalance.WithLabelValues("MNT")))

	before := testutil.ToFloat64(m.offersOpened)
	m.OfferOpened()
	require.Equal(t, before+1, testutil.ToFloat64(m.offersOpened))

	m.OfferClosed("accepted")
	m.OfferClosed("canceled")
	require.Equal(t, float64(1), testutil.ToFloat64(m.offersClosed.WithLabelValues("accepted")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.offersClosed.WithLabelValues("canceled")))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *MarketMetrics
	require.NotPanics(t, func() {
		m.ObserveOperation("x", "ok")
		m.SetEscrowBalance("MNT", 1)
		m.OfferOpened()
		m.OfferClosed("accepted")
	})
}

package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/you/go-flyniki-flights/internal/offer"
)

func fare(route, times string, price float64) offer.Offer {
	return offer.Offer{
		Route:     route,
		TimeRange: times,
		Duration:  "02 h 00 min",
		FareClass: "Economy Light",
		Price:     price,
		Currency:  "EUR",
	}
}

func TestRankOneWaySortsByPrice(t *testing.T) {
	offers := []offer.Offer{
		fare("TXL-PMI", "06:00-08:00", 120),
		fare("TXL-PMI", "09:00-11:00", 80),
		fare("TXL-PMI", "12:00-14:00", 100),
	}

	got := RankOneWay(offers)
	require.Len(t, got, 3)
	require.Equal(t, []float64{80, 100, 120}, totals(got))
	for _, it := range got {
		require.Nil(t, it.Return)
		require.Equal(t, it.Outbound.Price, it.TotalPrice)
		require.Equal(t, "EUR", it.Currency)
	}
}

func TestRankOneWayStableTies(t *testing.T) {
	offers := []offer.Offer{
		fare("TXL-PMI", "06:00-08:00", 90),
		fare("TXL-PMI", "09:00-11:00", 80),
		fare("TXL-PMI", "12:00-14:00", 90),
		fare("TXL-PMI", "15:00-17:00", 80),
	}

	got := RankOneWay(offers)
	require.Equal(t, []string{"09:00-11:00", "15:00-17:00", "06:00-08:00", "12:00-14:00"}, outboundTimes(got))
}

func TestRankOneWayIdempotent(t *testing.T) {
	offers := []offer.Offer{
		fare("TXL-PMI", "06:00-08:00", 50),
		fare("TXL-PMI", "09:00-11:00", 50),
		fare("TXL-PMI", "12:00-14:00", 75),
	}

	first := RankOneWay(offers)
	again := RankOneWay(outbounds(first))
	require.Equal(t, first, again)
	require.Equal(t, offers, outbounds(first))
}

func TestRankRoundTripCrossProduct(t *testing.T) {
	out := []offer.Offer{
		fare("TXL-PMI", "06:00-08:00", 100),
		fare("TXL-PMI", "09:00-11:00", 60),
		fare("TXL-PMI", "12:00-14:00", 80),
	}
	ret := []offer.Offer{
		fare("PMI-TXL", "18:00-20:00", 40),
		fare("PMI-TXL", "21:00-23:00", 20),
	}

	got := RankRoundTrip(out, ret)
	require.Len(t, got, len(out)*len(ret))
	for i, it := range got {
		require.NotNil(t, it.Return)
		require.Equal(t, it.Outbound.Price+it.Return.Price, it.TotalPrice)
		if i > 0 {
			require.LessOrEqual(t, got[i-1].TotalPrice, it.TotalPrice)
		}
	}
	require.Equal(t, []float64{80, 100, 100, 120, 120, 140}, totals(got))

	// equal totals keep outbound-major order: 60+40 before 80+20
	require.Equal(t, "09:00-11:00", got[1].Outbound.TimeRange)
	require.Equal(t, "12:00-14:00", got[2].Outbound.TimeRange)
}

func TestRankRoundTripEmptyLeg(t *testing.T) {
	out := []offer.Offer{fare("TXL-PMI", "06:00-08:00", 100)}
	require.Empty(t, RankRoundTrip(out, nil))
	require.Empty(t, RankRoundTrip(nil, out))
}

func TestRankDispatch(t *testing.T) {
	out := []offer.Offer{fare("TXL-PMI", "06:00-08:00", 100)}
	ret := []offer.Offer{fare("PMI-TXL", "18:00-20:00", 40)}

	require.Nil(t, Rank(out, ret, false)[0].Return)
	require.Equal(t, 140.0, Rank(out, ret, true)[0].TotalPrice)
}

func totals(its []Itinerary) []float64 {
	out := make([]float64, len(its))
	for i, it := range its {
		out[i] = it.TotalPrice
	}
	return out
}

func outboundTimes(its []Itinerary) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.Outbound.TimeRange
	}
	return out
}

func outbounds(its []Itinerary) []offer.Offer {
	out := make([]offer.Offer, len(its))
	for i, it := range its {
		out[i] = it.Outbound
	}
	return out
}

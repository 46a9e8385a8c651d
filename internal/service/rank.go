package service

import (
	"cmp"
	"slices"

	"github.com/you/go-flyniki-flights/internal/offer"
)

// Itinerary is one ranked result. Return is nil for one-way searches.
type Itinerary struct {
	Outbound   offer.Offer  `json:"outbound"`
	Return     *offer.Offer `json:"return,omitempty"`
	TotalPrice float64      `json:"total_price"`
	Currency   string       `json:"currency"`
}

// RankOneWay orders offers by ascending price, keeping extraction order
// between equal prices.
func RankOneWay(outbound []offer.Offer) []Itinerary {
	out := make([]Itinerary, 0, len(outbound))
	for _, o := range outbound {
		out = append(out, Itinerary{Outbound: o, TotalPrice: o.Price, Currency: o.Currency})
	}
	sortByTotal(out)
	return out
}

// RankRoundTrip prices every outbound/return pair and orders the pairs by
// ascending total. Equal totals keep outbound-major, return-minor order.
func RankRoundTrip(outbound, inbound []offer.Offer) []Itinerary {
	out := make([]Itinerary, 0, len(outbound)*len(inbound))
	for _, o := range outbound {
		for i := range inbound {
			r := inbound[i]
			out = append(out, Itinerary{
				Outbound:   o,
				Return:     &r,
				TotalPrice: o.Price + r.Price,
				Currency:   o.Currency,
			})
		}
	}
	sortByTotal(out)
	return out
}

func Rank(outbound, inbound []offer.Offer, roundTrip bool) []Itinerary {
	if roundTrip {
		return RankRoundTrip(outbound, inbound)
	}
	return RankOneWay(outbound)
}

func sortByTotal(its []Itinerary) {
	slices.SortStableFunc(its, func(a, b Itinerary) int {
		return cmp.Compare(a.TotalPrice, b.TotalPrice)
	})
}

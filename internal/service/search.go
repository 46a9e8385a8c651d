package service

import (
	"context"
	"log/slog"

	"github.com/you/go-flyniki-flights/internal/chrono"
	"github.com/you/go-flyniki-flights/internal/extract"
	"github.com/you/go-flyniki-flights/internal/offer"
	"github.com/you/go-flyniki-flights/internal/providers"
	"github.com/you/go-flyniki-flights/internal/query"
)

type SearchResult struct {
	Departure   string      `json:"departure"`
	Destination string      `json:"destination"`
	Outbound    string      `json:"outbound_date"`
	Return      string      `json:"return_date,omitempty"`
	RoundTrip   bool        `json:"round_trip"`
	Itineraries []Itinerary `json:"itineraries"`
}

type SearchService struct {
	source providers.FareSource
	clock  chrono.TimeAPI
}

func NewSearchService(source providers.FareSource, clock chrono.TimeAPI) *SearchService {
	return &SearchService{source: source, clock: clock}
}

// Search runs one validate, fetch, extract and rank pass. Invalid input is
// rejected before the fare source is contacted. Every failure is terminal.
func (s *SearchService) Search(ctx context.Context, req query.Request) (SearchResult, error) {
	q, err := query.Validate(req, s.clock.Now())
	if err != nil {
		return SearchResult{}, err
	}

	log := slog.With("source", s.source.Name(), "departure", q.Departure, "destination", q.Destination)
	log.InfoContext(ctx, "requesting flights", "outbound", q.OutboundDate(), "return", q.ReturnDate())

	raw, err := s.source.Fetch(ctx, q)
	if err != nil {
		return SearchResult{}, err
	}

	log.InfoContext(ctx, "processing flights")
	page, err := extract.ParsePage(raw)
	if err != nil {
		return SearchResult{}, err
	}

	outbound, err := page.Offers(extract.Outbound)
	if err != nil {
		return SearchResult{}, err
	}
	res := SearchResult{
		Departure:   q.Departure,
		Destination: q.Destination,
		Outbound:    q.OutboundDate(),
		Return:      q.ReturnDate(),
		RoundTrip:   q.RoundTrip(),
	}
	var inbound []offer.Offer
	if q.RoundTrip() {
		inbound, err = page.Offers(extract.Return)
		if err != nil {
			return SearchResult{}, err
		}
	}
	res.Itineraries = Rank(outbound, inbound, q.RoundTrip())

	log.DebugContext(ctx, "ranked itineraries", "count", len(res.Itineraries))
	return res, nil
}

// Package present renders ranked itineraries for a terminal.
package present

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/you/go-flyniki-flights/internal/offer"
	"github.com/you/go-flyniki-flights/internal/service"
)

// WriteText prints numbered itineraries. Round trips list the outbound leg,
// the return leg and the total, with a blank line between itineraries.
func WriteText(w io.Writer, res service.SearchResult) error {
	if len(res.Itineraries) == 0 {
		_, err := fmt.Fprintln(w, "No flights found.")
		return err
	}
	for i, it := range res.Itineraries {
		var err error
		if it.Return == nil {
			_, err = fmt.Fprintf(w, "No %d. %s\n", i+1, line(it.Outbound))
		} else {
			_, err = fmt.Fprintf(w, "No %d.\n%s\n%s\nTotal cost: %s %s\n\n",
				i+1,
				line(it.Outbound),
				line(*it.Return),
				offer.FormatPrice(it.TotalPrice), it.Currency,
			)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func line(o offer.Offer) string {
	return fmt.Sprintf("%s %s %s %s %s %s", o.Route, o.TimeRange, o.Duration, o.FareClass, offer.FormatPrice(o.Price), o.Currency)
}

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// WriteTable renders the same itineraries as a bordered table.
func WriteTable(w io.Writer, res service.SearchResult) {
	t := NewTable(w)
	t.SetTitle("%s → %s", res.Departure, res.Destination)

	if !res.RoundTrip {
		t.AppendHeader(table.Row{"#", "Route", "Time", "Duration", "Fare", "Price"})
		for i, it := range res.Itineraries {
			o := it.Outbound
			t.AppendRow(table.Row{i + 1, o.Route, o.TimeRange, o.Duration, o.FareClass, price(o.Price, o.Currency)})
		}
	} else {
		t.AppendHeader(table.Row{"#", "Leg", "Route", "Time", "Duration", "Fare", "Price", "Total"})
		for i, it := range res.Itineraries {
			o, r := it.Outbound, it.Return
			t.AppendRow(table.Row{i + 1, "out", o.Route, o.TimeRange, o.Duration, o.FareClass, price(o.Price, o.Currency), price(it.TotalPrice, it.Currency)})
			t.AppendRow(table.Row{"", "return", r.Route, r.TimeRange, r.Duration, r.FareClass, price(r.Price, r.Currency), ""})
			t.AppendSeparator()
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Price", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
	})
	t.Render()
}

func price(v float64, currency string) string {
	return offer.FormatPrice(v) + " " + currency
}

package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/you/go-flyniki-flights/internal/offer"
	"github.com/you/go-flyniki-flights/internal/providers"
)

func cell(title string) string {
	return fmt.Sprintf(`<td headers="flight-table-header-price-ECO_FLEX"><label><div class="lowest"><span title="%s">%s</span></div></label></td>`, title, title)
}

func fareTable(dir, currency string, titles ...string) string {
	var rows strings.Builder
	for _, t := range titles {
		rows.WriteString("<tr><td>flight</td>" + cell(t) + "</tr>")
	}
	return fmt.Sprintf(`<div class="%s block"><div class="tablebackground"><table class="flighttable">
<thead><tr><th id="flight-table-header-flight">Flight</th><th id="flight-table-header-price-ECO_FLEX">%s</th></tr></thead>
<tbody>%s</tbody></table></div></div>`, dir, currency, rows.String())
}

func resultsPage(tables ...string) providers.RawResponse {
	var raw providers.RawResponse
	raw.Templates.Main = `<div id="vacancy_flighttable">` + strings.Join(tables, "") + `</div>`
	return raw
}

func errorPage(fragment string) providers.RawResponse {
	return providers.RawResponse{Error: &fragment}
}

func TestExtractOutbound(t *testing.T) {
	raw := resultsPage(fareTable("outbound", "RUB",
		"DME-TXL, 08:55-13:55, 06 h 00 min, Economy Flex: 31,073.00",
		"DME-TXL, 13:10-18:25, 07 h 15 min, Economy Classic: 12,400.50",
	))

	offers, err := Extract(raw, Outbound)
	require.NoError(t, err)
	require.Equal(t, []offer.Offer{
		{Route: "DME-TXL", TimeRange: "08:55-13:55", Duration: "06 h 00 min", FareClass: "Economy Flex", Price: 31073, Currency: "RUB"},
		{Route: "DME-TXL", TimeRange: "13:10-18:25", Duration: "07 h 15 min", FareClass: "Economy Classic", Price: 12400.5, Currency: "RUB"},
	}, offers)
}

func TestExtractDeduplicates(t *testing.T) {
	title := "DME-TXL, 08:55-13:55, 06 h 00 min, Economy Flex: 31,073.00"
	raw := resultsPage(fareTable("outbound", "RUB", title, title))

	offers, err := Extract(raw, Outbound)
	require.NoError(t, err)
	require.Len(t, offers, 1)
}

func TestExtractBothDirections(t *testing.T) {
	raw := resultsPage(
		fareTable("outbound", "EUR", "TXL-PMI, 06:10-08:40, 02 h 30 min, Economy Light: 89.99"),
		fareTable("return", "EUR",
			"PMI-TXL, 19:00-21:35, 02 h 35 min, Economy Light: 79.99",
			"PMI-TXL, 09:00-11:35, 02 h 35 min, Economy Classic: 129.99",
		),
	)

	page, err := ParsePage(raw)
	require.NoError(t, err)

	out, err := page.Offers(Outbound)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "TXL-PMI", out[0].Route)

	ret, err := page.Offers(Return)
	require.NoError(t, err)
	require.Len(t, ret, 2)
	require.Equal(t, "PMI-TXL", ret[0].Route)
	require.Equal(t, 129.99, ret[1].Price)
	require.Equal(t, "EUR", ret[1].Currency)
}

func TestExtractVendorRejected(t *testing.T) {
	raw := errorPage(`<div class="error"><p>No connections found for the entered data.</p></div>`)
	// a results template next to the error must not be looked at
	raw.Templates.Main = `<div id="vacancy_flighttable"></div>`

	_, err := Extract(raw, Outbound)
	var rejected *VendorRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, "No connections found for the entered data.", rejected.Message)
}

func TestExtractVendorRejectedPlainText(t *testing.T) {
	_, err := Extract(errorPage("  Service unavailable  "), Outbound)
	var rejected *VendorRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, "Service unavailable", rejected.Message)
}

func TestExtractNoResultsContainer(t *testing.T) {
	var raw providers.RawResponse
	raw.Templates.Main = `<div id="vacancy_calendar">nothing here</div>`

	_, err := Extract(raw, Outbound)
	require.ErrorIs(t, err, ErrNoResultsFound)
}

func TestExtractMissingDirectionTable(t *testing.T) {
	raw := resultsPage(fareTable("outbound", "EUR", "TXL-PMI, 06:10-08:40, 02 h 30 min, Economy Light: 89.99"))

	_, err := Extract(raw, Return)
	require.ErrorIs(t, err, ErrNoResultsFound)
	require.Contains(t, err.Error(), "return")
}

func TestExtractMissingCurrency(t *testing.T) {
	raw := resultsPage(fareTable("outbound", "  ", "TXL-PMI, 06:10-08:40, 02 h 30 min, Economy Light: 89.99"))

	_, err := Extract(raw, Outbound)
	require.ErrorIs(t, err, ErrNoResultsFound)
}

func TestExtractMalformedOfferIsFatal(t *testing.T) {
	raw := resultsPage(fareTable("outbound", "EUR",
		"TXL-PMI, 06:10-08:40, 02 h 30 min, Economy Light: 89.99",
		"TXL-PMI, sold out",
	))

	offers, err := Extract(raw, Outbound)
	require.ErrorIs(t, err, offer.ErrMalformedOffer)
	require.Nil(t, offers)
}

func TestRawOffersTrailingDelimiter(t *testing.T) {
	raw := resultsPage(fareTable("outbound", "RUB", "DME-TXL, 08:55-13:55, 06 h 00 min, Economy Flex: 31,073.00, "))

	page, err := ParsePage(raw)
	require.NoError(t, err)
	strs, err := page.RawOffers(Outbound)
	require.NoError(t, err)
	require.Equal(t, []string{"DME-TXL, 08:55-13:55, 06 h 00 min, Economy Flex: 31,073.00, RUB"}, strs)
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	require.Equal(t, []string{"b", "a", "c"}, dedupe([]string{"b", "a", "b", "c", "a"}))
	require.Empty(t, dedupe(nil))
}

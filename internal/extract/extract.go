// Package extract pulls fare offers out of the vendor's results template.
//
// The selectors below follow a single observed layout of the flyniki booking
// page; a layout change shows up as ErrNoResultsFound or a malformed offer.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/you/go-flyniki-flights/internal/offer"
	"github.com/you/go-flyniki-flights/internal/providers"
)

type Direction string

const (
	Outbound Direction = "outbound"
	Return   Direction = "return"
)

const (
	resultsSelector  = "div#vacancy_flighttable"
	errorSelector    = "div > p"
	currencySelector = `thead > tr > th[id^="flight-table-header-price"]`
	priceSelector    = `tbody > tr > td[headers^="flight-table-header-price"] > label > div.lowest > span[title]`
)

var ErrNoResultsFound = errors.New("no connections found for the entered data")

// VendorRejectedError carries the vendor's own explanation of why it refused
// the search.
type VendorRejectedError struct {
	Message string
}

func (e *VendorRejectedError) Error() string {
	return "vendor rejected search: " + e.Message
}

// Page is a parsed results template.
type Page struct {
	results *goquery.Selection
}

// ParsePage classifies raw and, when it carries results, parses the template.
// An error fragment is reported as *VendorRejectedError without looking for
// fare tables.
func ParsePage(raw providers.RawResponse) (*Page, error) {
	if raw.Error != nil {
		return nil, &VendorRejectedError{Message: vendorMessage(*raw.Error)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw.Templates.Main))
	if err != nil {
		return nil, fmt.Errorf("parse results template: %w", err)
	}
	results := doc.Find(resultsSelector).First()
	if results.Length() == 0 {
		return nil, ErrNoResultsFound
	}
	return &Page{results: results}, nil
}

func vendorMessage(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	if p := doc.Find(errorSelector).First(); p.Length() > 0 {
		return strings.TrimSpace(p.Text())
	}
	return strings.TrimSpace(doc.Text())
}

// RawOffers returns the distinct offer summaries of the fare table for dir, in
// page order, each suffixed with the table's currency.
func (p *Page) RawOffers(dir Direction) ([]string, error) {
	table := p.results.Find(fmt.Sprintf("div.%s.block > div.tablebackground > table.flighttable", dir)).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no %s fare table", ErrNoResultsFound, dir)
	}

	currency := strings.TrimSpace(table.Find(currencySelector).First().Text())
	if currency == "" {
		return nil, fmt.Errorf("%w: no currency in %s fare table", ErrNoResultsFound, dir)
	}

	var raw []string
	table.Find(priceSelector).Each(func(_ int, span *goquery.Selection) {
		title := strings.TrimRight(strings.TrimSpace(span.AttrOr("title", "")), " ,")
		raw = append(raw, title+", "+currency)
	})
	return dedupe(raw), nil
}

// Offers parses every distinct summary of the fare table for dir. One
// malformed summary fails the whole table.
func (p *Page) Offers(dir Direction) ([]offer.Offer, error) {
	raw, err := p.RawOffers(dir)
	if err != nil {
		return nil, err
	}
	out := make([]offer.Offer, 0, len(raw))
	for _, r := range raw {
		o, err := offer.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%s fare table: %w", dir, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Extract is ParsePage followed by Offers.
func Extract(raw providers.RawResponse, dir Direction) ([]offer.Offer, error) {
	page, err := ParsePage(raw)
	if err != nil {
		return nil, err
	}
	return page.Offers(dir)
}

// dedupe keeps the first occurrence of every string, the vendor repeats the
// lowest fare in several cells.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

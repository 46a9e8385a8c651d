// Package offer decodes the vendor's one-line fare summaries.
//
// A summary has the fixed shape
//
//	<route>, <time range>, <duration>, <fare class>: <price>, <currency>
//
// e.g. "DME-TXL, 08:55-13:55, 06 h 00 min, Economy Flex: 31,073.00, RUB".
package offer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Offer struct {
	Route     string  `json:"route"`
	TimeRange string  `json:"time_range"`
	Duration  string  `json:"duration"`
	FareClass string  `json:"fare_class"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
}

func (o Offer) String() string {
	return fmt.Sprintf("%s, %s, %s, %s: %s %s", o.Route, o.TimeRange, o.Duration, o.FareClass, FormatPrice(o.Price), o.Currency)
}

var ErrMalformedOffer = errors.New("malformed offer")

type MalformedOfferError struct {
	Raw    string
	Reason string
}

func (e *MalformedOfferError) Error() string {
	return fmt.Sprintf("%s: %s: %q", ErrMalformedOffer, e.Reason, e.Raw)
}

func (e *MalformedOfferError) Unwrap() error { return ErrMalformedOffer }

var (
	routeRe = regexp.MustCompile(`^[A-Z]{3}-[A-Z]{3}$`)
	timesRe = regexp.MustCompile(`^\d{1,2}:\d{2}-\d{1,2}:\d{2}(\+\d)?$`)
	priceRe = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d+)?$|^\d+(\.\d+)?$`)
)

// Parse splits raw into its six fields. Any deviation from the expected shape
// is reported as a *MalformedOfferError.
func Parse(raw string) (Offer, error) {
	malformed := func(reason string) (Offer, error) {
		return Offer{}, &MalformedOfferError{Raw: raw, Reason: reason}
	}

	// the time range contains colons too, so the fare separator is the first
	// colon followed by whitespace
	idx := strings.Index(raw, ": ")
	if idx < 0 {
		return malformed("missing fare separator")
	}
	head, tail := raw[:idx], raw[idx+1:]

	fields := splitTrim(head)
	if len(fields) != 4 {
		return malformed(fmt.Sprintf("expected 4 flight segments, got %d", len(fields)))
	}
	route, times, duration, fare := fields[0], fields[1], fields[2], fields[3]
	if !routeRe.MatchString(route) {
		return malformed("bad route segment")
	}
	if !timesRe.MatchString(times) {
		return malformed("bad time range")
	}
	if duration == "" || fare == "" {
		return malformed("empty duration or fare class")
	}

	amount, currency, err := splitPrice(strings.TrimSpace(tail))
	if err != nil {
		return malformed(err.Error())
	}
	price, err := ParsePrice(amount)
	if err != nil {
		return malformed(err.Error())
	}

	return Offer{
		Route:     route,
		TimeRange: times,
		Duration:  duration,
		FareClass: fare,
		Price:     price,
		Currency:  currency,
	}, nil
}

// splitPrice separates "31,073.00, RUB" (or "31,073.00 RUB") into amount and
// currency. The amount's own thousands separators are followed by digits, the
// delimiter before the currency is not.
func splitPrice(s string) (string, string, error) {
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' {
			end++
			continue
		}
		if c == ',' && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return "", "", errors.New("missing price")
	}
	amount := s[:end]
	currency := strings.TrimSpace(strings.TrimLeft(s[end:], ", "))
	if currency == "" {
		return "", "", errors.New("missing currency")
	}
	if strings.ContainsAny(currency, ",:") {
		return "", "", errors.New("unexpected trailing segments")
	}
	return amount, currency, nil
}

// ParsePrice converts a vendor amount such as "31,073.00" to a number.
func ParsePrice(s string) (float64, error) {
	if !priceRe.MatchString(s) {
		return 0, fmt.Errorf("non-numeric price %q", s)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric price %q", s)
	}
	return v, nil
}

// FormatPrice renders a price with two decimals and comma thousands separators.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String() + "." + frac
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

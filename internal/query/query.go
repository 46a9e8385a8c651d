// Package query validates user search input into an immutable Query.
//
// Validation never touches the network: a request that fails here is never
// sent to the vendor.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var iataCode = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	ErrInvalidCode       = errors.New("incorrect IATA code")
	ErrInvalidDateFormat = errors.New("incorrect date format, use YYYY-MM-DD")
	ErrDateOrder         = errors.New("outbound date after return date")
	ErrPastDate          = errors.New("date is in the past")
	ErrDateTooFar        = errors.New("date is more than a year in the future")
)

// ValidationError reports which field of a Request was rejected and why.
// Kind is one of the Err* sentinels above.
type ValidationError struct {
	Kind  error
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Kind, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Request is the raw, unvalidated search input.
type Request struct {
	Departure    string `json:"departure"`
	Destination  string `json:"destination"`
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date,omitempty"`
}

// Query is a validated search. Return is nil for one-way searches.
type Query struct {
	Departure   string
	Destination string
	Outbound    time.Time
	Return      *time.Time
}

func (q Query) RoundTrip() bool { return q.Return != nil }

func (q Query) OutboundDate() string { return q.Outbound.Format(DateLayout) }

// ReturnDate is empty for one-way queries.
func (q Query) ReturnDate() string {
	if q.Return == nil {
		return ""
	}
	return q.Return.Format(DateLayout)
}

// Validate checks req against the clock reading now. Only an empty return
// date selects one-way mode; a return date equal to the outbound date is a
// same-day round trip.
func Validate(req Request, now time.Time) (Query, error) {
	if !iataCode.MatchString(req.Departure) {
		return Query{}, &ValidationError{Kind: ErrInvalidCode, Field: "departure", Value: req.Departure}
	}
	if !iataCode.MatchString(req.Destination) {
		return Query{}, &ValidationError{Kind: ErrInvalidCode, Field: "destination", Value: req.Destination}
	}

	q := Query{Departure: req.Departure, Destination: req.Destination}

	outbound, err := parseDate("outbound_date", req.OutboundDate, now.Location())
	if err != nil {
		return Query{}, err
	}
	q.Outbound = outbound

	last := outbound
	if ret := strings.TrimSpace(req.ReturnDate); ret != "" {
		r, err := parseDate("return_date", ret, now.Location())
		if err != nil {
			return Query{}, err
		}
		if outbound.After(r) {
			return Query{}, &ValidationError{Kind: ErrDateOrder, Field: "return_date", Value: ret}
		}
		q.Return = &r
		last = r
	}

	today := Day(now)
	if outbound.Before(today) {
		return Query{}, &ValidationError{Kind: ErrPastDate, Field: "outbound_date", Value: req.OutboundDate}
	}
	if last.After(AddYears(today, 1)) {
		field, value := "outbound_date", req.OutboundDate
		if q.Return != nil {
			field, value = "return_date", req.ReturnDate
		}
		return Query{}, &ValidationError{Kind: ErrDateTooFar, Field: field, Value: value}
	}

	return q, nil
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Kind: ErrInvalidDateFormat, Field: field, Value: value}
	}
	return d, nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddYears shifts a calendar date by n years. A Feb 29 landing on a non-leap
// year becomes Feb 28 of that year instead of rolling into March.
func AddYears(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := y + n
	if last := daysIn(m, target); d > last {
		d = last
	}
	return time.Date(target, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package service

import (
	"errors"

	"github.com/you/go-flyniki-flights/internal/extract"
	"github.com/you/go-flyniki-flights/internal/offer"
	"github.com/you/go-flyniki-flights/internal/providers"
	"github.com/you/go-flyniki-flights/internal/query"
)

// ErrorClass groups search failures by who is at fault.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassValidation
	ClassNetwork
	ClassVendorRejected
	ClassNoResults
	ClassMalformedOffer
)

func (c ErrorClass) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassNetwork:
		return "network"
	case ClassVendorRejected:
		return "vendor_rejected"
	case ClassNoResults:
		return "no_results"
	case ClassMalformedOffer:
		return "malformed_offer"
	default:
		return "unknown"
	}
}

func Classify(err error) ErrorClass {
	var (
		verr     *query.ValidationError
		rejected *extract.VendorRejectedError
	)
	switch {
	case err == nil:
		return ClassUnknown
	case errors.As(err, &verr):
		return ClassValidation
	case errors.Is(err, providers.ErrNetwork):
		return ClassNetwork
	case errors.As(err, &rejected):
		return ClassVendorRejected
	case errors.Is(err, extract.ErrNoResultsFound):
		return ClassNoResults
	case errors.Is(err, offer.ErrMalformedOffer):
		return ClassMalformedOffer
	default:
		return ClassUnknown
	}
}

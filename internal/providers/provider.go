package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/go-flyniki-flights/internal/query"
)

// RawResponse is the vendor's AJAX payload. Exactly one of Error or
// Templates.Main is expected to be populated.
type RawResponse struct {
	Error     *string `json:"error,omitempty"`
	Templates struct {
		Main string `json:"main"`
	} `json:"templates"`
}

// FareSource fetches the raw result payload for one validated query.
type FareSource interface {
	Name() string
	Fetch(ctx context.Context, q query.Query) (RawResponse, error)
}

var ErrNetwork = errors.New("network error")

// NetworkError is a transport-level failure talking to the vendor.
type NetworkError struct {
	Stage  string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", ErrNetwork, e.Stage, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrNetwork, e.Stage, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

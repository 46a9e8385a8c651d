package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/you/go-flyniki-flights/internal/providers"
	"github.com/you/go-flyniki-flights/internal/query"
)

// SourceMock is a canned FareSource for tests.
type SourceMock struct {
	name            string
	response        providers.RawResponse
	errorOutMessage *string
	callCount       *int32
	lastQuery       *query.Query
}

func (p SourceMock) Name() string {
	return p.name
}

func (p SourceMock) Fetch(ctx context.Context, q query.Query) (providers.RawResponse, error) {
	if p.callCount != nil {
		atomic.AddInt32(p.callCount, 1)
	}
	if p.lastQuery != nil {
		*p.lastQuery = q
	}
	if p.errorOutMessage != nil {
		return providers.RawResponse{}, &providers.NetworkError{Stage: "results", Err: errors.New(p.Name() + ": " + *p.errorOutMessage)}
	}
	if err := ctx.Err(); err != nil {
		return providers.RawResponse{}, &providers.NetworkError{Stage: "session", Err: err}
	}
	return p.response, nil
}

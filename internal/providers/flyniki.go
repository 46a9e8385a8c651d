package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/you/go-flyniki-flights/internal/config"
	"github.com/you/go-flyniki-flights/internal/query"
)

const (
	stageSession = "session"
	stageResults = "results"

	adultCount  = "1"
	childCount  = "0"
	infantCount = "0"
)

// Flyniki talks to the flyniki.com vacancy endpoint. It holds no session of
// its own: every Fetch opens a fresh cookie jar and drops it on return.
type Flyniki struct {
	searchURL string
	userAgent string
	timeout   time.Duration
}

func NewFlyniki(cfg *config.Config) *Flyniki {
	return &Flyniki{
		searchURL: cfg.VendorURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.RequestTimeout,
	}
}

func (f *Flyniki) Name() string { return "flyniki" }

func (f *Flyniki) newSession() (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := resty.New()
	c.SetCookieJar(jar)
	if f.userAgent != "" {
		c.SetHeader("User-Agent", f.userAgent)
	}
	if f.timeout > 0 {
		c.SetTimeout(f.timeout)
	}
	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		slog.DebugContext(req.Context(), "start request", "method", req.Method, "url", req.URL)
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		slog.DebugContext(res.Request.Context(), "request done",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"elapsed", res.Time(),
		)
		return nil
	})
	return c, nil
}

// Fetch runs the two-stage exchange: a search submission that opens a
// server-side session, then an AJAX request against the landing URL that
// returns the results template.
func (f *Flyniki) Fetch(ctx context.Context, q query.Query) (RawResponse, error) {
	session, err := f.newSession()
	if err != nil {
		return RawResponse{}, &NetworkError{Stage: stageSession, Err: err}
	}
	defer session.GetClient().CloseIdleConnections()

	landing, err := f.openSession(ctx, session, q)
	if err != nil {
		return RawResponse{}, err
	}

	res, err := session.R().
		SetContext(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("Accept", "application/json, text/javascript, */*").
		SetFormDataFromValues(ajaxParams(q)).
		Post(landing)
	if err != nil {
		return RawResponse{}, &NetworkError{Stage: stageResults, Err: err}
	}
	if res.IsError() {
		return RawResponse{}, &NetworkError{Stage: stageResults, Status: res.StatusCode(), Err: errors.New(res.Status())}
	}

	var raw RawResponse
	if err := json.Unmarshal(res.Body(), &raw); err != nil {
		return RawResponse{}, &NetworkError{Stage: stageResults, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return raw, nil
}

// openSession submits the search form and returns the URL the vendor
// redirected to, which identifies the session for the AJAX call.
func (f *Flyniki) openSession(ctx context.Context, session *resty.Client, q query.Query) (string, error) {
	res, err := session.R().
		SetContext(ctx).
		SetQueryParamsFromValues(searchParams(q)).
		Get(f.searchURL)
	if err != nil {
		return "", &NetworkError{Stage: stageSession, Err: err}
	}
	if res.IsError() {
		return "", &NetworkError{Stage: stageSession, Status: res.StatusCode(), Err: errors.New(res.Status())}
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL.String(), nil
	}
	return res.Request.URL, nil
}

func oneway(q query.Query) string {
	if q.RoundTrip() {
		return ""
	}
	return "on"
}

func searchParams(q query.Query) url.Values {
	v := url.Values{}
	v.Set("departure", q.Departure)
	v.Set("destination", q.Destination)
	v.Set("outboundDate", q.OutboundDate())
	v.Set("returnDate", q.ReturnDate())
	v.Set("oneway", oneway(q))
	v.Set("openDateOverview", "0")
	v.Set("adultCount", adultCount)
	v.Set("childCount", childCount)
	v.Set("infantCount", infantCount)
	return v
}

func ajaxParams(q query.Query) url.Values {
	v := url.Values{}
	v.Add("_ajax[templates][]", "main")
	set := func(k, val string) { v.Set("_ajax[requestParams]["+k+"]", val) }
	set("departure", q.Departure)
	set("destination", q.Destination)
	set("returnDeparture", "")
	set("returnDestination", "")
	set("outboundDate", q.OutboundDate())
	set("returnDate", q.ReturnDate())
	set("adultCount", adultCount)
	set("childCount", childCount)
	set("infantCount", infantCount)
	set("openDateOverview", "")
	set("oneway", oneway(q))
	return v
}

package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/you/go-flyniki-flights/internal/query"
	"github.com/you/go-flyniki-flights/internal/service"
)

type Searcher interface {
	Search(ctx context.Context, req query.Request) (service.SearchResult, error)
}

type errorResponse struct {
	Error string `json:"error"`
	Class string `json:"class"`
}

func StatusFor(class service.ErrorClass) int {
	switch class {
	case service.ClassValidation:
		return http.StatusBadRequest
	case service.ClassVendorRejected:
		return http.StatusUnprocessableEntity
	case service.ClassNoResults:
		return http.StatusNotFound
	case service.ClassNetwork, service.ClassMalformedOffer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	class := service.Classify(err)
	writeJSON(w, StatusFor(class), errorResponse{Error: err.Error(), Class: class.String()})
}

func requestFromQuery(r *http.Request, dep, dst string) query.Request {
	q := r.URL.Query()
	return query.Request{
		Departure:    strings.ToUpper(dep),
		Destination:  strings.ToUpper(dst),
		OutboundDate: q.Get("outbound"),
		ReturnDate:   q.Get("return"),
	}
}

// SearchHandler serves GET /flights/search?departure=&destination=&outbound=[&return=].
func SearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		req := requestFromQuery(r, q.Get("departure"), q.Get("destination"))
		res, err := svc.Search(r.Context(), req)
		if err != nil {
			slog.InfoContext(r.Context(), "search failed", "err", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func routeFromPath(path, prefix string) (string, string, bool) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, prefix), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// SubscribeSSEHandler re-runs a search every interval and pushes each result
// as a server-sent event. A failed search is sent as an error event and ends
// the stream.
func SubscribeSSEHandler(svc Searcher, interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dep, dst, ok := routeFromPath(r.URL.Path, "/sse/")
		if !ok {
			http.Error(w, "use /sse/{departure}/{destination}?outbound=YYYY-MM-DD[&return=YYYY-MM-DD]", http.StatusBadRequest)
			return
		}
		req := requestFromQuery(r, dep, dst)

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			res, err := svc.Search(ctx, req)
			if err != nil {
				payload, _ := json.Marshal(errorResponse{Error: err.Error(), Class: service.Classify(err).String()})
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
				flusher.Flush()
				return
			}
			payload, _ := json.Marshal(res)
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", payload)
			flusher.Flush()

			select {
			case <-ctx.Done():
				slog.Debug("SSE client closed")
				return
			case <-ticker.C:
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SubscribeWSHandler is the WebSocket flavour of SubscribeSSEHandler.
func SubscribeWSHandler(svc Searcher, interval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dep, dst, ok := routeFromPath(r.URL.Path, "/ws/")
		if !ok {
			http.Error(w, "use /ws/{departure}/{destination}?outbound=YYYY-MM-DD[&return=YYYY-MM-DD]", http.StatusBadRequest)
			return
		}
		req := requestFromQuery(r, dep, dst)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("upgrade error", "err", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			res, err := svc.Search(ctx, req)
			if err != nil {
				_ = conn.WriteJSON(errorResponse{Error: err.Error(), Class: service.Classify(err).String()})
				return
			}
			if err := conn.WriteJSON(res); err != nil {
				slog.Warn("write error", "err", err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

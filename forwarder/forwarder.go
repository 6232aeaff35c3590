// Package forwarder implements the outbound relay described in
// SPEC_FULL.md §4.4: build an upstream request from an incoming one,
// execute it with a shared, pooled client, and return the upstream
// response verbatim. Header stripping is grounded on the teacher's
// caddyhttp/proxy/reverseproxy.go hopHeaders list.
package forwarder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/metrics"
)

// Timeout is the per-request upstream deadline (§6).
const Timeout = 30 * time.Second

// hopByHop is the header set stripped from the outgoing request,
// compared case-insensitively (§4.4). Unlike a full RFC 7230 hop-by-hop
// list, this is intentionally the exact three-header set SPEC_FULL.md
// names — no more, no less.
var hopByHop = map[string]bool{
	"host":              true,
	"connection":        true,
	"transfer-encoding": true,
}

// Forwarder owns the shared, pooled HTTP client used for every upstream
// request, matching the "instantiate once, share across tasks" guidance
// in SPEC_FULL.md §9/§5.
type Forwarder struct {
	client *http.Client
}

// New builds a Forwarder with a pooled transport. The fixed 30s timeout
// is applied by Forward to each request as a whole (not per-dial), so
// that slow headers, slow bodies, and slow round trips are all bounded
// alike.
func New() *Forwarder {
	return &Forwarder{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
			// Timeout is applied per-request via context in Forward, not
			// here; that deadline stays in force while the response body
			// is read.
		},
	}
}

// Result is the outcome of a successful forward: the upstream response,
// already drained into memory so callers can both relay it to the client
// and record it into the Request Log.
type Result struct {
	Status  int
	Header  http.Header
	Body    []byte
	TookURL string
}

// Forward relays r to baseURL+r.URL.Path(+RawQuery), stripping hop-by-hop
// request headers, and returns the upstream response byte-for-byte. Any
// failure (DNS, TCP, TLS, protocol, timeout, context cancellation) is
// reported as a *mockd.Error of KindBadGateway.
func (f *Forwarder) Forward(r *http.Request, baseURL string) (*Result, error) {
	target := strings.TrimSuffix(baseURL, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	ctx, cancel := context.WithTimeout(r.Context(), Timeout)
	defer cancel()

	var body io.Reader
	if r.Body != nil {
		body = r.Body
	}

	outreq, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, mockd.BadGateway(fmt.Errorf("building upstream request: %w", err))
	}
	copyHeaders(outreq.Header, r.Header)

	start := time.Now()
	resp, err := f.client.Do(outreq)
	if err != nil {
		metrics.ForwardDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, mockd.BadGateway(fmt.Errorf("proxying to %s: %w", target, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ForwardDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, mockd.BadGateway(fmt.Errorf("reading upstream response from %s: %w", target, err))
	}
	metrics.ForwardDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	return &Result{
		Status:  resp.StatusCode,
		Header:  resp.Header.Clone(),
		Body:    respBody,
		TookURL: target,
	}, nil
}

// copyHeaders forwards every header in src to dst, except the hop-by-hop
// set. No header is synthesized on the way out (§4.4).
func copyHeaders(dst, src http.Header) {
	for k, vals := range src {
		if hopByHop[strings.ToLower(k)] {
			continue
		}
		for _, v := range vals {
			dst.Add(k, v)
		}
	}
}

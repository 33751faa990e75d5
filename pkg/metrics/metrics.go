package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_http_requests_total",
		Help: "Number of HTTP requests served, by framework and route",
	}, []string{"framework", "method", "path", "status"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_http_request_duration_seconds",
		Help:    "Time taken to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"framework", "method"})
	upstreamCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_upstream_requests_total",
		Help: "Number of requests made to upstream APIs, by outcome",
	}, []string{"api", "outcome"})
)

func init() {
	prometheus.MustRegister(requestCount, requestDuration, upstreamCount)
}

// ObserveRequest records a served request. path should be the route template, not the raw path
func ObserveRequest(framework string, method string, path string, status int, elapsed time.Duration) {
	requestCount.With(prometheus.Labels{
		"framework": framework,
		"method":    method,
		"path":      path,
		"status":    strconv.Itoa(status),
	}).Inc()
	requestDuration.With(prometheus.Labels{"framework": framework, "method": method}).Observe(elapsed.Seconds())
}

type upstreamTransport struct {
	api  string
	base http.RoundTripper
}

func (t *upstreamTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	response, err := t.base.RoundTrip(request)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case response.StatusCode >= 400:
		outcome = "http_" + strconv.Itoa(response.StatusCode)
	}
	upstreamCount.With(prometheus.Labels{"api": t.api, "outcome": outcome}).Inc()

	return response, err
}

// NewTransport wraps base so every upstream call is counted under the given api label
func NewTransport(api string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &upstreamTransport{api: api, base: base}
}

// NewHTTPClient is the client used for all outbound API calls
func NewHTTPClient(api string) *http.Client {
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: NewTransport(api, nil),
	}
}

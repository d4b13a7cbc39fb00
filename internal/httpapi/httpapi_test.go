package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signalsfoundry/astrochart/chart"
	"github.com/signalsfoundry/astrochart/internal/observability"
)

func newTestServer(t *testing.T) (*Server, *observability.ChartCollector) {
	t.Helper()
	collector, err := observability.NewChartCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewChartCollector: %v", err)
	}
	return New(nil, collector, chart.NewService(nil, collector)), collector
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Errorf("responses should carry a request ID")
	}
}

func TestPostCharts(t *testing.T) {
	srv, collector := newTestServer(t)
	body := `{
		"time": "2024-03-20T12:00:00Z",
		"location": {"latitude_deg": 40.7, "longitude_deg": -74}
	}`
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/charts", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("/v1/charts status = %d, body %s", rr.Code, rr.Body.String())
	}
	var c chart.Chart
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if c.ID == "" || len(c.Bodies) != 12 {
		t.Errorf("chart = id %q with %d bodies, want an ID and 12 bodies", c.ID, len(c.Bodies))
	}
	if c.Angles == nil {
		t.Errorf("location was given; chart should carry angles")
	}
	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/v1/charts", "200")); got != 1 {
		t.Errorf("http_requests_total{code=200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.ChartsComputed); got != 1 {
		t.Errorf("charts_computed_total = %v, want 1", got)
	}
}

func TestPostChartsRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"bad time", `{"time": "not-a-time"}`},
		{"circumpolar location", `{"location": {"latitude_deg": 89, "longitude_deg": 0}}`},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/charts", strings.NewReader(c.body)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rr.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil || resp["error"] == "" {
			t.Errorf("%s: error body missing: %v", c.name, rr.Body.String())
		}
	}
}

func TestChartsMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/charts", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /v1/charts status = %d, want 405", rr.Code)
	}
}

func TestPostTransits(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{
		"natal": [{"name": "NatalSun", "longitude": 70.5}],
		"from": "2024-05-25T00:00:00Z",
		"to": "2024-06-05T00:00:00Z",
		"step_hours": 24,
		"aspect_types": ["conjunction"]
	}`
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/transits", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("/v1/transits status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp transitResponseJSON
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, h := range resp.Hits {
		if h.Time.Before(mustTime(t, "2024-05-25T00:00:00Z")) || h.Time.After(mustTime(t, "2024-06-05T00:00:00Z")) {
			t.Errorf("hit %v outside the requested window", h)
		}
	}
}

func TestPostTransitsRejectsBadWindow(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{
		"natal": [{"name": "X", "longitude": 10}],
		"from": "2024-06-05T00:00:00Z",
		"to": "2024-05-25T00:00:00Z"
	}`
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/transits", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("inverted window status = %d, want 400", rr.Code)
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChartCollector bundles the Prometheus metrics for chart computation
// and the HTTP surface, and provides helpers to wire them into handlers.
type ChartCollector struct {
	gatherer prometheus.Gatherer

	ChartsComputed   prometheus.Counter
	AspectsDetected  *prometheus.CounterVec
	PatternsDetected *prometheus.CounterVec
	ScanDuration     prometheus.Histogram

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	// Current-sky gauges, refreshed by chartd's ticker.
	CurrentAspects  prometheus.Gauge
	CurrentPatterns prometheus.Gauge
}

// NewChartCollector registers the chart metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewChartCollector(reg prometheus.Registerer) (*ChartCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	charts, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "charts_computed_total",
		Help: "Total number of charts assembled.",
	}), "charts_computed_total")
	if err != nil {
		return nil, err
	}

	aspects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aspects_detected_total",
		Help: "Total number of aspects detected, labeled by aspect type.",
	}, []string{"type"})
	aspects, err = registerCounterVec(reg, aspects, "aspects_detected_total")
	if err != nil {
		return nil, err
	}

	patterns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patterns_detected_total",
		Help: "Total number of aspect patterns detected, labeled by pattern type.",
	}, []string{"pattern"})
	patterns, err = registerCounterVec(reg, patterns, "patterns_detected_total")
	if err != nil {
		return nil, err
	}

	scanDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aspect_scan_duration_seconds",
		Help:    "Wall time of one full aspect scan plus pattern search.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "aspect_scan_duration_seconds")
	if err != nil {
		return nil, err
	}

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"})
	httpRequests, err = registerCounterVec(reg, httpRequests, "http_requests_total")
	if err != nil {
		return nil, err
	}

	httpDurations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route"})
	httpDurations, err = registerHistogramVec(reg, httpDurations, "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	currentAspects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "current_sky_aspects",
		Help: "Number of aspects in the most recent current-sky refresh.",
	}), "current_sky_aspects")
	if err != nil {
		return nil, err
	}
	currentPatterns, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "current_sky_patterns",
		Help: "Number of patterns in the most recent current-sky refresh.",
	}), "current_sky_patterns")
	if err != nil {
		return nil, err
	}

	return &ChartCollector{
		gatherer:         gatherer,
		ChartsComputed:   charts,
		AspectsDetected:  aspects,
		PatternsDetected: patterns,
		ScanDuration:     scanDuration,
		HTTPRequests:     httpRequests,
		HTTPDurations:    httpDurations,
		CurrentAspects:   currentAspects,
		CurrentPatterns:  currentPatterns,
	}, nil
}

// ObserveChart records one assembled chart: its scan duration and the
// per-type tallies of aspects and patterns.
func (c *ChartCollector) ObserveChart(elapsed time.Duration, aspectTypes, patternTypes map[string]int) {
	if c == nil {
		return
	}
	if c.ChartsComputed != nil {
		c.ChartsComputed.Inc()
	}
	if c.ScanDuration != nil {
		c.ScanDuration.Observe(elapsed.Seconds())
	}
	if c.AspectsDetected != nil {
		for t, n := range aspectTypes {
			c.AspectsDetected.WithLabelValues(t).Add(float64(n))
		}
	}
	if c.PatternsDetected != nil {
		for t, n := range patternTypes {
			c.PatternsDetected.WithLabelValues(t).Add(float64(n))
		}
	}
}

// SetCurrentSky drives the gauges from the periodic refresh loop.
func (c *ChartCollector) SetCurrentSky(aspects, patterns int) {
	if c == nil {
		return
	}
	if c.CurrentAspects != nil {
		c.CurrentAspects.Set(float64(aspects))
	}
	if c.CurrentPatterns != nil {
		c.CurrentPatterns.Set(float64(patterns))
	}
}

// Middleware records request counts and durations for an HTTP route.
func (c *ChartCollector) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		if c == nil {
			return
		}
		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
		}
		if c.HTTPDurations != nil {
			c.HTTPDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ChartCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

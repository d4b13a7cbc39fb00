// Package httpapi exposes the chart service over JSON/HTTP. The surface
// is deliberately small: one endpoint to build charts, one to search
// transits, and a health probe.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/chart"
	"github.com/signalsfoundry/astrochart/internal/logging"
	"github.com/signalsfoundry/astrochart/internal/observability"
	"github.com/signalsfoundry/astrochart/model"
	"github.com/signalsfoundry/astrochart/transits"
)

// Server holds the handler dependencies.
type Server struct {
	log     logging.Logger
	metrics *observability.ChartCollector
	charts  *chart.Service
	tracer  trace.Tracer
}

// New constructs a Server. Logger and collector may be nil.
func New(log logging.Logger, metrics *observability.ChartCollector, charts *chart.Service) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{
		log:     log,
		metrics: metrics,
		charts:  charts,
		tracer:  otel.Tracer("astrochart/httpapi"),
	}
}

// Routes assembles the full handler: routing, request-ID annotation, and
// per-route metrics.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/charts", s.metrics.Middleware("/v1/charts", http.HandlerFunc(s.handleCharts)))
	mux.Handle("/v1/transits", s.metrics.Middleware("/v1/transits", http.HandlerFunc(s.handleTransits)))
	mux.HandleFunc("/healthz", s.handleHealth)
	return s.withRequestID(mux)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := logging.WithRequestLogger(r.Context(), s.log)
		w.Header().Set("X-Request-Id", logging.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("use POST"))
		return
	}
	ctx, span := s.tracer.Start(r.Context(), "httpapi.charts")
	defer span.End()

	req, err := chart.LoadRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := s.charts.Build(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// transit request/response wire shapes, unexported like the chart loader's.
type transitRequestJSON struct {
	Natal       []transitBodyJSON `json:"natal"`
	From        string            `json:"from"` // RFC 3339
	To          string            `json:"to"`   // RFC 3339
	StepHours   float64           `json:"step_hours"` // 0 means the default daily step
	AspectTypes []string          `json:"aspect_types"`
}

type transitBodyJSON struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
}

type transitResponseJSON struct {
	Hits []transits.Hit `json:"Hits"`
}

func (s *Server) handleTransits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("use POST"))
		return
	}
	_, span := s.tracer.Start(r.Context(), "httpapi.transits")
	defer span.End()

	var payload transitRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode failed: %w", err))
		return
	}

	from, err := time.Parse(time.RFC3339, payload.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad from %q: %w", payload.From, err))
		return
	}
	to, err := time.Parse(time.RFC3339, payload.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad to %q: %w", payload.To, err))
		return
	}

	var cfg aspects.Config
	if payload.AspectTypes != nil {
		types := make([]aspects.AspectType, 0, len(payload.AspectTypes))
		for _, name := range payload.AspectTypes {
			typ := aspects.AspectType(name)
			if _, ok := aspects.NominalAngle(typ); !ok {
				writeError(w, http.StatusBadRequest, fmt.Errorf("unknown aspect type %q", name))
				return
			}
			types = append(types, typ)
		}
		cfg.AllowedTypes = types
	}

	natal := make([]model.Body, 0, len(payload.Natal))
	for _, b := range payload.Natal {
		if b.Name == "" {
			writeError(w, http.StatusBadRequest, fmt.Errorf("natal body with empty name"))
			return
		}
		natal = append(natal, model.Body{Name: b.Name, Longitude: b.Longitude})
	}

	step := time.Duration(payload.StepHours * float64(time.Hour))
	hits, err := transits.Search(natal, from, to, step, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, transitResponseJSON{Hits: hits})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

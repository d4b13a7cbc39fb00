package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/astrotime"
	"github.com/signalsfoundry/astrochart/ephemeris"
	"github.com/signalsfoundry/astrochart/houses"
	"github.com/signalsfoundry/astrochart/internal/logging"
	"github.com/signalsfoundry/astrochart/internal/observability"
	"github.com/signalsfoundry/astrochart/model"
)

// Service builds charts from a fixed set of position models. It holds no
// mutable state between calls, so one Service may serve any number of
// concurrent Build calls.
type Service struct {
	log     logging.Logger
	metrics *observability.ChartCollector
	models  []ephemeris.PositionModel
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService returns a Service over the standard ephemeris models.
// Logger and collector may be nil.
func NewService(log logging.Logger, metrics *observability.ChartCollector) *Service {
	if log == nil {
		log = logging.Noop()
	}
	return &Service{
		log:     log,
		metrics: metrics,
		models:  ephemeris.Models(),
		tracer:  otel.Tracer("astrochart/chart"),
		now:     time.Now,
	}
}

// Build assembles a chart for the request. It is the one entry point the
// API layer and the commands share.
func (s *Service) Build(ctx context.Context, req Request) (*Chart, error) {
	ctx, span := s.tracer.Start(ctx, "chart.Build")
	defer span.End()

	at := req.Time
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	bodies := make([]model.Body, 0, len(s.models)+len(req.ExtraBodies))
	for _, m := range s.models {
		bodies = append(bodies, m.At(at))
	}
	bodies = append(bodies, req.ExtraBodies...)

	started := time.Now()
	scan, err := aspects.Scan(bodies, req.Config)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}
	patterns := aspects.FindPatterns(scan.Aspects)
	elapsed := time.Since(started)

	c := &Chart{
		ID:           uuid.NewString(),
		Time:         at,
		Bodies:       bodies,
		Aspects:      scan.Aspects,
		PairsChecked: scan.PairsChecked,
		Patterns:     patterns,
		Summary:      aspects.SummaryByType(scan.Aspects),
	}

	if req.Location != nil {
		if err := s.attachHouses(c, req, at); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("chart.bodies", len(bodies)),
		attribute.Int("chart.aspects", len(scan.Aspects)),
		attribute.Int("chart.patterns", len(patterns)),
	)

	s.metrics.ObserveChart(elapsed, tallyAspects(scan.Aspects), tallyPatterns(patterns))
	s.log.Info(ctx, "chart built",
		logging.String("chart_id", c.ID),
		logging.Int("bodies", len(bodies)),
		logging.Int("aspects", len(scan.Aspects)),
		logging.Int("patterns", len(patterns)),
	)
	return c, nil
}

func (s *Service) attachHouses(c *Chart, req Request, at time.Time) error {
	system := req.HouseSystem
	if system == "" {
		system = houses.Equal
	}

	lst := astrotime.LSTDegrees(at, req.Location.LongitudeDeg)
	angles, err := houses.ComputeAngles(lst, *req.Location)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}
	cusps, err := houses.Cusps(system, angles.Ascendant)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}

	placements := make(map[string]int, len(c.Bodies))
	for _, b := range c.Bodies {
		placements[b.Name] = houses.HouseOf(cusps, b.Longitude)
	}

	c.Angles = &angles
	c.HouseSystem = system
	c.Cusps = &cusps
	c.Houses = placements
	return nil
}

func tallyAspects(list []aspects.Aspect) map[string]int {
	out := make(map[string]int, len(list))
	for _, a := range list {
		out[string(a.Type)]++
	}
	return out
}

func tallyPatterns(list []aspects.AspectPattern) map[string]int {
	out := make(map[string]int, len(list))
	for _, p := range list {
		out[string(p.Type)]++
	}
	return out
}

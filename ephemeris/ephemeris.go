// Package ephemeris supplies body longitudes to the aspect engine. The
// models here are deliberately low precision: linear mean longitudes
// referred to the J2000 epoch, good enough to exercise every consumer of
// longitude data while staying dependency-free. Callers needing
// arc-second accuracy can implement PositionModel against a real
// ephemeris and feed the same pipeline.
package ephemeris

import (
	"math"
	"time"

	"github.com/signalsfoundry/astrochart/astrotime"
	"github.com/signalsfoundry/astrochart/model"
)

// PositionModel yields one body's longitude state at a given instant.
type PositionModel interface {
	Name() string
	At(t time.Time) model.Body
}

// meanElementModel advances a J2000 mean longitude at a constant daily
// rate. Negative rates model retrograde points such as the lunar node.
type meanElementModel struct {
	name    string
	epochLon float64 // degrees at J2000
	rate     float64 // degrees per day
}

func (m meanElementModel) Name() string { return m.name }

func (m meanElementModel) At(t time.Time) model.Body {
	d := astrotime.DaysSinceJ2000(t)
	lon := math.Mod(m.epochLon+m.rate*d, 360)
	if lon < 0 {
		lon += 360
	}
	return model.Body{
		Name:           m.name,
		Longitude:      lon,
		LongitudeSpeed: model.Speed(m.rate),
	}
}

// catalog holds the J2000 mean longitudes and daily motions for the
// standard chart points, in the customary chart order.
var catalog = []meanElementModel{
	{name: model.Sun, epochLon: 280.460, rate: 0.98564736},
	{name: model.Moon, epochLon: 218.316, rate: 13.17639648},
	{name: model.Mercury, epochLon: 252.251, rate: 4.09233445},
	{name: model.Venus, epochLon: 181.980, rate: 1.60213034},
	{name: model.Mars, epochLon: 355.433, rate: 0.52403304},
	{name: model.Jupiter, epochLon: 34.351, rate: 0.08308687},
	{name: model.Saturn, epochLon: 50.077, rate: 0.03344414},
	{name: model.Uranus, epochLon: 314.055, rate: 0.01172834},
	{name: model.Neptune, epochLon: 304.348, rate: 0.00598103},
	{name: model.Pluto, epochLon: 238.958, rate: 0.00396},
	{name: model.NorthNode, epochLon: 125.045, rate: -0.05295377},
	{name: model.Lilith, epochLon: 83.353, rate: 0.11140353},
}

// Models returns the standard set of position models in chart order.
func Models() []PositionModel {
	out := make([]PositionModel, len(catalog))
	for i, m := range catalog {
		out[i] = m
	}
	return out
}

// Snapshot evaluates every standard model at t. The result is a fresh
// slice on every call; nothing is cached or shared.
func Snapshot(t time.Time) []model.Body {
	bodies := make([]model.Body, len(catalog))
	for i, m := range catalog {
		bodies[i] = m.At(t)
	}
	return bodies
}

// Package chart assembles full chart reports: body positions for an
// instant, the aspects among them, recognized patterns, and optionally
// the chart angles and house cusps for a location.
package chart

import (
	"time"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/houses"
	"github.com/signalsfoundry/astrochart/model"
)

// Request describes one chart to build. The zero value asks for a
// current-sky chart with default classification settings and no houses.
type Request struct {
	// Time is the chart instant. The zero time means "now".
	Time time.Time `json:"Time"`

	// Location enables the house layer. Nil skips angles and cusps.
	Location *model.GeoLocation `json:"Location,omitempty"`

	// HouseSystem selects the house division when Location is set.
	// Empty defaults to equal houses.
	HouseSystem houses.System `json:"HouseSystem,omitempty"`

	// ExtraBodies are appended after the standard ephemeris bodies, in
	// the order given. Their longitudes are taken as-is.
	ExtraBodies []model.Body `json:"ExtraBodies,omitempty"`

	// Config controls aspect classification for this chart.
	Config aspects.Config `json:"Config"`
}

// Chart is one assembled report.
type Chart struct {
	ID   string    `json:"ID"`
	Time time.Time `json:"Time"`

	Bodies       []model.Body             `json:"Bodies"`
	Aspects      []aspects.Aspect         `json:"Aspects"`
	PairsChecked int                      `json:"PairsChecked"`
	Patterns     []aspects.AspectPattern  `json:"Patterns"`
	Summary      map[aspects.AspectType]int `json:"Summary"`

	// House data, present only when the request carried a location.
	Angles      *houses.Angles `json:"Angles,omitempty"`
	HouseSystem houses.System  `json:"HouseSystem,omitempty"`
	Cusps       *[12]float64   `json:"Cusps,omitempty"`
	Houses      map[string]int `json:"Houses,omitempty"`
}

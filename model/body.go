package model

// Body is a snapshot of a celestial point at one instant: a name that is
// unique within a scan, an ecliptic longitude in degrees, and an optional
// angular velocity. The aspect engine never mutates or retains bodies
// beyond a single call.
type Body struct {
	Name      string `json:"Name"`
	Longitude float64 `json:"Longitude"`

	// LongitudeSpeed is the rate of change of Longitude in degrees per day.
	// A nil speed means motion direction is unknown, which is a distinct
	// state from a zero (stationary) speed.
	LongitudeSpeed *float64 `json:"LongitudeSpeed,omitempty"`
}

// Speed is a convenience constructor for optional speed fields.
func Speed(degPerDay float64) *float64 {
	return &degPerDay
}

// Canonical body names used by the ephemeris layer. Callers may add
// arbitrary extra points (angles, asteroids, Arabic parts) under any
// name not clashing with these.
const (
	Sun       = "Sun"
	Moon      = "Moon"
	Mercury   = "Mercury"
	Venus     = "Venus"
	Mars      = "Mars"
	Jupiter   = "Jupiter"
	Saturn    = "Saturn"
	Uranus    = "Uranus"
	Neptune   = "Neptune"
	Pluto     = "Pluto"
	NorthNode = "NorthNode"
	Lilith    = "Lilith"
)

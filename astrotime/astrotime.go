// Package astrotime converts civil time into the astronomical time scales
// the ephemeris and house layers need: Julian day, days since the J2000
// epoch, and Greenwich/local sidereal time.
package astrotime

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// J2000 is the Julian day of the standard epoch 2000-01-01 12:00 UTC.
const J2000 = 2451545.0

// JulianDay returns the Julian day number for t, including the fraction
// of the current second. go-satellite's JDay only resolves whole seconds.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	return jd + float64(t.Nanosecond())/1e9/86400.0
}

// DaysSinceJ2000 returns the (possibly negative) day count from the
// J2000 epoch to t.
func DaysSinceJ2000(t time.Time) float64 {
	return JulianDay(t) - J2000
}

// GMSTDegrees returns the Greenwich mean sidereal time at t, in degrees
// within [0, 360).
func GMSTDegrees(t time.Time) float64 {
	theta := satellite.ThetaG_JD(JulianDay(t)) // radians
	return normalizeDegrees(theta * 180 / math.Pi)
}

// LSTDegrees returns the local sidereal time for an east-positive
// geographic longitude, in degrees within [0, 360).
func LSTDegrees(t time.Time, eastLongitudeDeg float64) float64 {
	return normalizeDegrees(GMSTDegrees(t) + eastLongitudeDeg)
}

func normalizeDegrees(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

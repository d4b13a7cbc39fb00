package aspects

import (
	"fmt"
	"math"
)

// NormalizeLongitude reduces any finite longitude to [0, 360). Non-finite
// input is the one genuine error in this package: all downstream
// arithmetic assumes a finite value, so it fails fast here.
func NormalizeLongitude(deg float64) (float64, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, fmt.Errorf("NormalizeLongitude: longitude must be finite, got %v", deg)
	}
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m, nil
}

// Separation returns the minimal angular distance between two longitudes,
// in [0, 180]. Inputs may be any finite real degrees.
func Separation(lon1, lon2 float64) float64 {
	d := math.Mod(math.Abs(lon1-lon2), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// signIndex maps a normalized longitude to its zodiac sign, 0 (Aries)
// through 11 (Pisces).
func signIndex(lon float64) int {
	idx := int(math.Floor(lon/30)) % 12
	if idx < 0 {
		idx += 12
	}
	return idx
}

// signSpan is the minimal sign-count distance between two signs on the
// twelve-sign wheel, in [0, 6].
func signSpan(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

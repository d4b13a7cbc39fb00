// Package houses computes the chart angles (Ascendant, Midheaven) and
// house cusps from sidereal time and geographic latitude.
package houses

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/astrochart/model"
)

// ObliquityDeg is the mean obliquity of the ecliptic at J2000. The slow
// secular drift (~47 arcsec/century) is far below this toolkit's
// precision, so a constant suffices.
const ObliquityDeg = 23.4393

// System selects a house-division scheme.
type System string

const (
	Equal     System = "equal"
	WholeSign System = "whole-sign"
)

// Angles holds the two primary chart angles, in ecliptic degrees.
type Angles struct {
	Ascendant float64 `json:"Ascendant"`
	Midheaven float64 `json:"Midheaven"`
}

// Midheaven returns the ecliptic longitude culminating on the meridian
// for a local sidereal time given in degrees.
func Midheaven(lstDeg float64) float64 {
	theta := lstDeg * math.Pi / 180
	eps := ObliquityDeg * math.Pi / 180
	mc := math.Atan2(math.Sin(theta), math.Cos(theta)*math.Cos(eps))
	return normalize(mc * 180 / math.Pi)
}

// Ascendant returns the ecliptic longitude rising on the eastern horizon
// for a local sidereal time and geographic latitude, both in degrees.
// Latitudes at or beyond the polar circles are rejected: the ecliptic
// can fail to intersect the horizon there and the formula degenerates.
func Ascendant(lstDeg, latitudeDeg float64) (float64, error) {
	if math.Abs(latitudeDeg) >= 90-ObliquityDeg {
		return 0, fmt.Errorf("houses: latitude %.2f° is circumpolar; ascendant undefined", latitudeDeg)
	}
	theta := lstDeg * math.Pi / 180
	eps := ObliquityDeg * math.Pi / 180
	phi := latitudeDeg * math.Pi / 180

	asc := math.Atan2(
		math.Cos(theta),
		-(math.Sin(theta)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)),
	)
	return normalize(asc * 180 / math.Pi), nil
}

// ComputeAngles derives both angles for an instant and location.
func ComputeAngles(lstDeg float64, loc model.GeoLocation) (Angles, error) {
	asc, err := Ascendant(lstDeg, loc.LatitudeDeg)
	if err != nil {
		return Angles{}, err
	}
	return Angles{Ascendant: asc, Midheaven: Midheaven(lstDeg)}, nil
}

// Cusps returns the twelve house cusps for the given system, starting
// from the first house. Equal houses step 30° from the Ascendant;
// whole-sign houses start at the Ascendant's sign boundary.
func Cusps(system System, ascendant float64) ([12]float64, error) {
	var cusps [12]float64
	switch system {
	case Equal:
		for i := 0; i < 12; i++ {
			cusps[i] = normalize(ascendant + float64(i)*30)
		}
	case WholeSign:
		start := math.Floor(normalize(ascendant)/30) * 30
		for i := 0; i < 12; i++ {
			cusps[i] = normalize(start + float64(i)*30)
		}
	default:
		return cusps, fmt.Errorf("houses: unknown system %q", system)
	}
	return cusps, nil
}

// HouseOf returns the 1-based house a longitude falls in for cusps as
// returned by Cusps.
func HouseOf(cusps [12]float64, longitude float64) int {
	lon := normalize(longitude)
	for i := 0; i < 12; i++ {
		lo := cusps[i]
		hi := cusps[(i+1)%12]
		if lo <= hi {
			if lon >= lo && lon < hi {
				return i + 1
			}
		} else if lon >= lo || lon < hi { // wraps 360 -> 0
			return i + 1
		}
	}
	return 12
}

func normalize(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

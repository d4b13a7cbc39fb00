// Package transits searches a time window for the instants when moving
// bodies form exact aspects to fixed natal positions.
package transits

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/ephemeris"
	"github.com/signalsfoundry/astrochart/model"
)

// DefaultStep is the sampling interval used when the caller passes zero.
// One day is fine for every standard body except the Moon near very
// narrow windows; callers tracking lunar contacts closely should sample
// at a few hours.
const DefaultStep = 24 * time.Hour

// Hit is one transit contact at its moment of exactness.
type Hit struct {
	Transiting string             `json:"Transiting"`
	Natal      string             `json:"Natal"`
	Type       aspects.AspectType `json:"Type"`
	Time       time.Time          `json:"Time"`
}

// Search walks the window [from, to] in step-sized samples and returns
// every instant a standard ephemeris body perfects an allowed aspect to
// a natal position. Hits come back in chronological order; equal times
// keep body-catalog order. The configuration's allow-list and disabled
// orbs are honored; orb widths otherwise do not matter, since a hit is
// an exact contact by definition.
func Search(natal []model.Body, from, to time.Time, step time.Duration, cfg aspects.Config) ([]Hit, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("transits: window end %v is not after start %v", to, from)
	}
	if step < 0 {
		return nil, fmt.Errorf("transits: negative step %v", step)
	}
	if step == 0 {
		step = DefaultStep
	}
	for _, b := range natal {
		if _, err := aspects.NormalizeLongitude(b.Longitude); err != nil {
			return nil, fmt.Errorf("transits: natal body %q: %w", b.Name, err)
		}
	}

	types := cfg.AllowedTypes
	if types == nil {
		types = aspects.PtolemaicAspects()
	}
	active := make([]aspects.AspectType, 0, len(types))
	for _, t := range types {
		if orb, ok := cfg.Orbs[t]; ok && orb <= 0 {
			continue // disabled type
		}
		if _, ok := aspects.NominalAngle(t); !ok {
			return nil, fmt.Errorf("transits: unknown aspect type %q", t)
		}
		active = append(active, t)
	}

	models := ephemeris.Models()

	var hits []Hit
	prev := sampleDeltas(models, natal, active, from)
	for cur := from.Add(step); ; cur = cur.Add(step) {
		if cur.After(to) {
			cur = to
		}
		next := sampleDeltas(models, natal, active, cur)
		for i := range next {
			for side := 0; side < 2; side++ {
				a, b := prev[i].delta[side], next[i].delta[side]
				if !crossesZero(a, b) {
					continue
				}
				exact := bisect(models[prev[i].transIdx], natal[prev[i].natalIdx].Longitude,
					prev[i].angle, side, prev[i].at, cur)
				hits = append(hits, Hit{
					Transiting: models[prev[i].transIdx].Name(),
					Natal:      natal[prev[i].natalIdx].Name,
					Type:       prev[i].typ,
					Time:       exact,
				})
			}
		}
		if cur.Equal(to) {
			break
		}
		prev = next
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Time.Before(hits[j].Time) })
	return hits, nil
}

// combo tracks the two signed offset functions for one
// (transiting, natal, type) triple at one sample instant. delta[0] is
// the offset toward +angle, delta[1] toward -angle; for the symmetric
// angles 0 and 180 the second side is disabled with NaN.
type combo struct {
	transIdx int
	natalIdx int
	typ      aspects.AspectType
	angle    float64
	at       time.Time
	delta    [2]float64
}

func sampleDeltas(models []ephemeris.PositionModel, natal []model.Body, types []aspects.AspectType, at time.Time) []combo {
	out := make([]combo, 0, len(models)*len(natal)*len(types))
	for mi, m := range models {
		lon := m.At(at).Longitude
		for ni, nb := range natal {
			for _, typ := range types {
				angle, _ := aspects.NominalAngle(typ)
				c := combo{transIdx: mi, natalIdx: ni, typ: typ, angle: angle, at: at}
				c.delta[0] = signedOffset(lon, nb.Longitude, angle)
				if angle == 0 || angle == 180 {
					c.delta[1] = math.NaN()
				} else {
					c.delta[1] = signedOffset(lon, nb.Longitude, -angle)
				}
				out = append(out, c)
			}
		}
	}
	return out
}

// signedOffset maps the transiting-minus-natal longitude difference,
// less the target angle, into (-180, 180]. A zero crossing is an exact
// contact on this side of the aspect.
func signedOffset(transLon, natalLon, angle float64) float64 {
	d := math.Mod(transLon-natalLon-angle, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// crossesZero reports a genuine sign change between consecutive samples.
// Jumps across the ±180 wrap also flip sign but span nearly the whole
// circle, so they are filtered by the magnitude of the change.
func crossesZero(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if b == 0 {
		return true
	}
	return a*b < 0 && math.Abs(b-a) < 180
}

// bisect narrows [lo, hi] down to the zero of the offset function. The
// mean-element models are monotone over any bracket this small, so
// plain bisection converges; 48 halvings take any practical window
// below a nanosecond.
func bisect(m ephemeris.PositionModel, natalLon, angle float64, side int, lo, hi time.Time) time.Time {
	target := angle
	if side == 1 {
		target = -angle
	}
	fLo := signedOffset(m.At(lo).Longitude, natalLon, target)
	for i := 0; i < 48 && hi.Sub(lo) > time.Microsecond; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		fMid := signedOffset(m.At(mid).Longitude, natalLon, target)
		if fMid == 0 {
			return mid
		}
		if (fLo < 0) == (fMid < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2)
}

package aspects

import (
	"math"

	"github.com/signalsfoundry/astrochart/model"
)

// applyingStepDays is how far longitudes are projected forward when
// deciding whether an aspect is applying or separating. Speeds are in
// degrees per day, so one day keeps the projection in the linear regime
// for every body, including the Moon.
const applyingStepDays = 1.0

// Classify determines whether two bodies stand in a configured aspect.
// The second return value is false when no allowed type matches within
// its orb, or when a matching aspect is filtered out by the strength
// floor or the out-of-sign rule. Non-finite longitudes also report no
// match; callers that need the descriptive error go through Scan or
// NormalizeLongitude.
func Classify(a, b model.Body, cfg Config) (Aspect, bool) {
	lonA, errA := NormalizeLongitude(a.Longitude)
	lonB, errB := NormalizeLongitude(b.Longitude)
	if errA != nil || errB != nil {
		return Aspect{}, false
	}

	sep := Separation(lonA, lonB)

	// Pick the minimum-deviation candidate among the allowed types.
	// Iteration follows aspectPriority, and the strict < keeps the
	// earlier-declared type on exact deviation ties (see aspectPriority).
	allowed := cfg.allowed()
	var (
		best    AspectType
		bestDev float64
		bestOrb float64
		found   bool
	)
	for _, t := range aspectPriority {
		if !allowed[t] {
			continue
		}
		orb := cfg.orbFor(t)
		if orb <= 0 {
			continue
		}
		dev := math.Abs(sep - aspectTable[t].Angle)
		if dev > orb {
			continue
		}
		if !found || dev < bestDev {
			best, bestDev, bestOrb, found = t, dev, orb, true
		}
	}
	if !found {
		return Aspect{}, false
	}

	strength := 100 * (1 - bestDev/bestOrb)
	if strength < 0 {
		strength = 0
	} else if strength > 100 {
		strength = 100
	}
	if strength < cfg.MinimumStrength {
		return Aspect{}, false
	}

	outOfSign := isOutOfSign(best, lonA, lonB)
	if outOfSign && cfg.DropOutOfSign {
		return Aspect{}, false
	}

	info := aspectTable[best]
	return Aspect{
		Body1:      a.Name,
		Body2:      b.Name,
		Type:       best,
		Angle:      info.Angle,
		Separation: sep,
		Deviation:  bestDev,
		Orb:        bestOrb,
		Strength:   strength,
		Motion:     motionPhase(a, b, lonA, lonB, info.Angle, bestDev),
		OutOfSign:  outOfSign,
		Symbol:     info.Symbol,
	}, true
}

// isOutOfSign reports whether a degree-based aspect sits in signs that do
// not match the type's traditional sign relationship (e.g. a trine whose
// bodies are three, not four, signs apart). Types without a traditional
// rule are never out-of-sign.
func isOutOfSign(t AspectType, lonA, lonB float64) bool {
	expected, ok := signDistance[t]
	if !ok {
		return false
	}
	return signSpan(signIndex(lonA), signIndex(lonB)) != expected
}

// motionPhase projects both longitudes forward by applyingStepDays and
// compares the deviation then against the deviation now. A tightening
// relationship is applying; anything else, separating. Missing speed on
// either body means the phase cannot be determined.
func motionPhase(a, b model.Body, lonA, lonB, nominal, currentDev float64) MotionPhase {
	if a.LongitudeSpeed == nil || b.LongitudeSpeed == nil {
		return MotionUnknown
	}
	futureA := lonA + *a.LongitudeSpeed*applyingStepDays
	futureB := lonB + *b.LongitudeSpeed*applyingStepDays
	futureDev := math.Abs(Separation(futureA, futureB) - nominal)
	if futureDev < currentDev {
		return MotionApplying
	}
	return MotionSeparating
}

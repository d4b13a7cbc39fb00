// Package aspects classifies angular relationships between pairs of
// celestial bodies and detects multi-body geometric configurations among
// them. Everything in this package is a pure function of its inputs: no
// state is retained between calls, so the engine is safe to invoke from
// any number of call sites at once.
package aspects

// AspectType names an angular relationship between two bodies, detected
// when their separation falls within an orb of the type's nominal angle.
type AspectType string

const (
	Conjunction    AspectType = "conjunction"
	SemiSextile    AspectType = "semisextile"
	Decile         AspectType = "decile"
	Novile         AspectType = "novile"
	SemiSquare     AspectType = "semisquare"
	Septile        AspectType = "septile"
	Sextile        AspectType = "sextile"
	Quintile       AspectType = "quintile"
	Square         AspectType = "square"
	Trine          AspectType = "trine"
	Sesquiquadrate AspectType = "sesquiquadrate"
	Biquintile     AspectType = "biquintile"
	Quincunx       AspectType = "quincunx"
	Opposition     AspectType = "opposition"
)

// aspectInfo is the static definition of one aspect type.
type aspectInfo struct {
	Angle      float64 // nominal angle in degrees
	DefaultOrb float64 // default tolerance in degrees
	Symbol     string
}

var aspectTable = map[AspectType]aspectInfo{
	Conjunction:    {Angle: 0, DefaultOrb: 8, Symbol: "☌"},
	SemiSextile:    {Angle: 30, DefaultOrb: 2, Symbol: "⚺"},
	Decile:         {Angle: 36, DefaultOrb: 2, Symbol: "D"},
	Novile:         {Angle: 40, DefaultOrb: 2, Symbol: "N"},
	SemiSquare:     {Angle: 45, DefaultOrb: 2, Symbol: "∠"},
	Septile:        {Angle: 360.0 / 7.0, DefaultOrb: 2, Symbol: "S"},
	Sextile:        {Angle: 60, DefaultOrb: 6, Symbol: "⚹"},
	Quintile:       {Angle: 72, DefaultOrb: 2, Symbol: "Q"},
	Square:         {Angle: 90, DefaultOrb: 7, Symbol: "□"},
	Trine:          {Angle: 120, DefaultOrb: 8, Symbol: "△"},
	Sesquiquadrate: {Angle: 135, DefaultOrb: 2.5, Symbol: "⚼"},
	Biquintile:     {Angle: 144, DefaultOrb: 2, Symbol: "bQ"},
	Quincunx:       {Angle: 150, DefaultOrb: 3, Symbol: "⚻"},
	Opposition:     {Angle: 180, DefaultOrb: 8, Symbol: "☍"},
}

// aspectPriority fixes the candidate iteration order: the five Ptolemaic
// majors in their traditional declaration order, then the minor/Kepler
// types by ascending nominal angle. When two candidate types match a
// separation with the exact same deviation (only possible with widened,
// overlapping orbs), the earlier entry wins. Compatibility-sensitive:
// downstream consumers depend on this exact ordering, so do not reorder.
var aspectPriority = []AspectType{
	Conjunction,
	Sextile,
	Square,
	Trine,
	Opposition,
	SemiSextile,
	Decile,
	Novile,
	SemiSquare,
	Septile,
	Quintile,
	Sesquiquadrate,
	Biquintile,
	Quincunx,
}

// signDistance maps each aspect type with a traditional sign relationship
// to the expected zodiac-sign distance between its two bodies. Types
// absent from this map have no traditional sign rule and are never
// flagged out-of-sign.
var signDistance = map[AspectType]int{
	Conjunction: 0,
	Sextile:     2,
	Square:      3,
	Trine:       4,
	Opposition:  6,
}

// NominalAngle returns the exact angle for an aspect type. Unknown types
// report ok=false.
func NominalAngle(t AspectType) (float64, bool) {
	info, ok := aspectTable[t]
	return info.Angle, ok
}

// DefaultOrb returns the default tolerance for an aspect type.
func DefaultOrb(t AspectType) (float64, bool) {
	info, ok := aspectTable[t]
	return info.DefaultOrb, ok
}

// Symbol returns the display glyph for an aspect type, or the type name
// itself when the type is unknown.
func Symbol(t AspectType) string {
	if info, ok := aspectTable[t]; ok {
		return info.Symbol
	}
	return string(t)
}

// AllAspectTypes returns every known aspect type in priority order.
func AllAspectTypes() []AspectType {
	out := make([]AspectType, len(aspectPriority))
	copy(out, aspectPriority)
	return out
}

// PtolemaicAspects returns the five classical major aspects, which are
// also the default allow-list for classification.
func PtolemaicAspects() []AspectType {
	return []AspectType{Conjunction, Sextile, Square, Trine, Opposition}
}

// MotionPhase reports whether an aspect is tightening or widening over
// time. Unknown is a distinct state (speed data missing for at least one
// body), not a default for either of the other two.
type MotionPhase string

const (
	MotionUnknown    MotionPhase = "unknown"
	MotionApplying   MotionPhase = "applying"
	MotionSeparating MotionPhase = "separating"
)

// Aspect describes one detected relationship between exactly two named
// bodies. Body1/Body2 keep scan-encounter order. Invariants: Deviation is
// within [0, Orb], Strength within [0, 100], Separation within [0, 180].
type Aspect struct {
	Body1      string      `json:"Body1"`
	Body2      string      `json:"Body2"`
	Type       AspectType  `json:"Type"`
	Angle      float64     `json:"Angle"`      // nominal angle for Type
	Separation float64     `json:"Separation"` // actual angular separation
	Deviation  float64     `json:"Deviation"`  // |Separation - Angle|
	Orb        float64     `json:"Orb"`        // tolerance that was applied
	Strength   float64     `json:"Strength"`   // 0..100, linear in Deviation/Orb
	Motion     MotionPhase `json:"Motion"`
	OutOfSign  bool        `json:"OutOfSign"`
	Symbol     string      `json:"Symbol"`
}

// Involves reports whether the named body is one of the aspect's two ends.
func (a Aspect) Involves(name string) bool {
	return a.Body1 == name || a.Body2 == name
}

// Config controls classification. The zero value is usable: default orbs,
// no strength floor, out-of-sign aspects included, and the Ptolemaic
// majors as the allow-list.
type Config struct {
	// Orbs overrides the default orb per aspect type. Types not present
	// keep their defaults. An override of zero or less disables the type.
	Orbs map[AspectType]float64

	// MinimumStrength drops any match scoring below this floor (0..100).
	MinimumStrength float64

	// DropOutOfSign excludes aspects whose zodiac-sign placement does not
	// match the type's traditional sign relationship. The default (false)
	// keeps them, flagged via Aspect.OutOfSign.
	DropOutOfSign bool

	// AllowedTypes restricts which aspect types are considered. Nil means
	// the five Ptolemaic majors.
	AllowedTypes []AspectType
}

func (c Config) orbFor(t AspectType) float64 {
	if c.Orbs != nil {
		if orb, ok := c.Orbs[t]; ok {
			return orb
		}
	}
	return aspectTable[t].DefaultOrb
}

func (c Config) allowed() map[AspectType]bool {
	types := c.AllowedTypes
	if types == nil {
		types = PtolemaicAspects()
	}
	set := make(map[AspectType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
